package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RobertRosca/zulip-write-only-proxy/internal/metrics"
)

// MetricsServer serves Prometheus metrics on a dedicated port, kept separate
// from the API server so scraping never passes through authentication.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewMetricsServer creates a server exposing /metrics in Prometheus format.
func NewMetricsServer(host string, port int, provider *metrics.Provider, logger *slog.Logger) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(provider.Handler()))

	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Start begins serving metrics. Blocks until the server stops.
func (s *MetricsServer) Start() error {
	s.logger.Info("starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server error: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}
