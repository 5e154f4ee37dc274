package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/notifyhq/notify-api/internal/config"
	"github.com/notifyhq/notify-api/internal/handler"
	clientHandler "github.com/notifyhq/notify-api/internal/handler/client"
	notificationHandler "github.com/notifyhq/notify-api/internal/handler/notification"
	"github.com/notifyhq/notify-api/internal/middleware"
	"github.com/notifyhq/notify-api/internal/repository/postgres"
	"github.com/notifyhq/notify-api/internal/router"
	clientService "github.com/notifyhq/notify-api/internal/service/client"
	notificationService "github.com/notifyhq/notify-api/internal/service/notification"
	"github.com/notifyhq/notify-api/pkg/messaging/redis"
	"github.com/notifyhq/notify-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Repositories
	baseRepo := postgres.NewBaseRepository(db)
	clientRepo := postgres.NewClientRepository(baseRepo)
	notificationRepo := postgres.NewNotificationRepository(baseRepo)
	agentRepo := postgres.NewAgentRepository(baseRepo)

	// Services
	validate := validator.New()
	clientSvc := clientService.NewService(clientRepo, validate)
	notificationSvc := notificationService.NewService(notificationRepo, clientRepo, broker, validate)

	// Handlers and middleware
	authMiddleware := middleware.NewAuthMiddleware(agentRepo)
	h := handler.NewHandler()
	clientH := clientHandler.NewHandler(clientSvc)
	notifH := notificationHandler.NewHandler(notificationSvc)

	r := router.NewRouter(authMiddleware, clientH, notifH, h, router.Config{
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
