// Package http provides the HTTP server and route wiring for the proxy API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	authHTTP "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/http"
	authUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/usecase"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/config"
	appmetrics "github.com/RobertRosca/zulip-write-only-proxy/internal/metrics"
	messagingHTTP "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/http"
)

// Server wraps the HTTP server and its router.
type Server struct {
	server       *http.Server
	router       *gin.Engine
	logger       *slog.Logger
	shuttingDown atomic.Bool

	// lifecycleCtx is cancelled on Shutdown so background goroutines
	// owned by middleware (rate limiter cleanup) exit with the server.
	lifecycleCtx    context.Context
	lifecycleCancel context.CancelFunc
}

// NewServer creates a new HTTP server with all API routes registered.
// meterProvider may be nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	clientUseCase authUseCase.ClientUseCase,
	clientHandler *authHTTP.ClientHandler,
	messageHandler *messagingHTTP.MessageHandler,
	meterProvider otelmetric.MeterProvider,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	s := &Server{
		logger: logger,
	}
	s.lifecycleCtx, s.lifecycleCancel = context.WithCancel(context.Background())
	s.router = s.setupRouter(cfg, clientUseCase, clientHandler, messageHandler, meterProvider)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	return s
}

// setupRouter builds the Gin engine with middleware and routes.
func (s *Server) setupRouter(
	cfg *config.Config,
	clientUseCase authUseCase.ClientUseCase,
	clientHandler *authHTTP.ClientHandler,
	messageHandler *messagingHTTP.MessageHandler,
	meterProvider otelmetric.MeterProvider,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if meterProvider != nil {
		router.Use(appmetrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api/v1")
	api.Use(authHTTP.AuthenticationMiddleware(clientUseCase, s.logger))

	if cfg.RateLimitEnabled {
		api.Use(authHTTP.RateLimitMiddleware(s.lifecycleCtx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	// Available to any authenticated client
	api.GET("/me", clientHandler.MeHandler)

	// Provisioning requires the admin capability
	clients := api.Group("/clients")
	clients.Use(authHTTP.RequireAdmin(s.logger))
	{
		clients.POST("", clientHandler.CreateHandler)
		clients.GET("", clientHandler.ListHandler)
	}

	// Messaging requires a regular client bound to a stream
	messaging := api.Group("")
	messaging.Use(authHTTP.RequireRegular(s.logger))
	{
		messaging.POST("/messages", messageHandler.SendHandler)
		messaging.PATCH("/messages/:id", messageHandler.UpdateHandler)
		messaging.POST("/upload", messageHandler.UploadHandler)
		messaging.GET("/topics", messageHandler.TopicsHandler)
	}

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// readinessHandler reports whether the server is accepting traffic.
// Returns 503 once shutdown has started so load balancers drain the instance.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.shuttingDown.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "shutting down",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Start begins listening for HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	s.lifecycleCancel()
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// Router returns the underlying Gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
