package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/notifyhq/notify-api/internal/handler"
	clientHandler "github.com/notifyhq/notify-api/internal/handler/client"
	notificationHandler "github.com/notifyhq/notify-api/internal/handler/notification"
	"github.com/notifyhq/notify-api/internal/middleware"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

type Config struct {
	RateLimit middleware.RateLimiterConfig
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	clientH *clientHandler.Handler
	notifH  *notificationHandler.Handler
	h       *handler.Handler
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	clientH *clientHandler.Handler,
	notifH *notificationHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metricsMiddleware(),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return &Router{
		engine:  engine,
		auth:    auth,
		clientH: clientH,
		notifH:  notifH,
		h:       h,
	}
}

func (r *Router) Setup() {
	r.engine.GET("/health/live", r.h.LivenessCheck)
	r.engine.GET("/health/ready", r.h.ReadinessCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	api := r.engine.Group("/api")
	r.clientH.RegisterRoutes(api)

	private := r.engine.Group("/api", r.auth.Authenticate())
	r.clientH.RegisterPrivateRoutes(private)
	r.notifH.RegisterPrivateRoutes(private)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(c.Request.Method, path, statusLabel(c.Writer.Status())).Inc()
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
