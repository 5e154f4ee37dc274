package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/notifyhq/notify-api/internal/config"
	"github.com/notifyhq/notify-api/internal/mailer"
	"github.com/notifyhq/notify-api/internal/repository/postgres"
	"github.com/notifyhq/notify-api/internal/worker"
	"github.com/notifyhq/notify-api/pkg/logger"
	"github.com/notifyhq/notify-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &l.ZL)
	if err != nil {
		l.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	baseRepo := postgres.NewBaseRepository(db)
	notificationRepo := postgres.NewNotificationRepository(baseRepo)

	smtp := mailer.NewSMTP(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	delivery := worker.NewDelivery(broker, notificationRepo, smtp, l, cfg.Worker.SendTimeout)

	setupHealthCheck(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("shutting down...")
		cancel()
	}()

	if err := delivery.Start(ctx); err != nil {
		l.Fatal(err, "delivery worker failed")
	}
}

func setupHealthCheck(l *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			l.ZL.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}
