// Package app provides dependency injection and application lifecycle management.
package app

import (
	"context"
	"log/slog"
	"os"
	"sync"

	authHTTP "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/http"
	authRepository "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/repository"
	authService "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/service"
	authUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/usecase"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/config"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
	appHTTP "github.com/RobertRosca/zulip-write-only-proxy/internal/http"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/metrics"
	messagingHTTP "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/http"
	messagingUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/usecase"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/zulip"
)

// Container manages application dependencies with lazy initialization.
// Each component is created once on first access; initialization errors are
// remembered so later calls fail the same way.
type Container struct {
	config *config.Config

	logger     *slog.Logger
	loggerOnce sync.Once

	metricsProvider     *metrics.Provider
	metricsProviderOnce sync.Once

	businessMetrics     metrics.BusinessMetrics
	businessMetricsOnce sync.Once

	clientRepository     *authRepository.FileClientRepository
	clientRepositoryOnce sync.Once

	tokenService     authService.TokenService
	tokenServiceOnce sync.Once

	clientUseCase     authUseCase.ClientUseCase
	clientUseCaseOnce sync.Once

	zulipClient     *zulip.Client
	zulipClientOnce sync.Once

	messageUseCase     messagingUseCase.MessageUseCase
	messageUseCaseOnce sync.Once

	httpServer     *appHTTP.Server
	httpServerOnce sync.Once

	metricsServer     *appHTTP.MetricsServer
	metricsServerOnce sync.Once

	mu         sync.Mutex
	initErrors map[string]error
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) setInitError(component string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[component] = err
}

func (c *Container) initError(component string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[component]
}

// Logger returns the structured logger, creating it on first use.
func (c *Container) Logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		var level slog.Level
		switch c.config.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		c.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
	})
	return c.logger
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// Fails when metrics are disabled; check Config().MetricsEnabled first.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderOnce.Do(func() {
		if !c.config.MetricsEnabled {
			c.setInitError("metricsProvider", apperrors.New("metrics are disabled"))
			return
		}

		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.setInitError("metricsProvider", apperrors.Wrap(err, "failed to create metrics provider"))
			return
		}
		c.metricsProvider = provider
	})
	return c.metricsProvider, c.initError("metricsProvider")
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsOnce.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		provider, err := c.MetricsProvider()
		if err != nil {
			c.setInitError("businessMetrics", err)
			return
		}

		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.setInitError("businessMetrics", apperrors.Wrap(err, "failed to create business metrics"))
			return
		}
		c.businessMetrics = bm
	})
	return c.businessMetrics, c.initError("businessMetrics")
}

// ClientRepository returns the persistent client registry.
// A corrupt client document fails here and must abort startup; serving with a
// partial registry would silently lock out provisioned clients.
func (c *Container) ClientRepository() (*authRepository.FileClientRepository, error) {
	c.clientRepositoryOnce.Do(func() {
		repo, err := authRepository.NewFileClientRepository(c.config.ClientsFilePath)
		if err != nil {
			c.setInitError("clientRepository", apperrors.Wrap(err, "failed to open client registry"))
			return
		}
		c.clientRepository = repo
	})
	return c.clientRepository, c.initError("clientRepository")
}

// TokenService returns the token generation service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceOnce.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// ClientUseCase returns the client use case, wrapped with metrics when enabled.
func (c *Container) ClientUseCase() (authUseCase.ClientUseCase, error) {
	c.clientUseCaseOnce.Do(func() {
		repo, err := c.ClientRepository()
		if err != nil {
			c.setInitError("clientUseCase", err)
			return
		}

		useCase := authUseCase.NewClientUseCase(repo, c.TokenService())

		bm, err := c.BusinessMetrics()
		if err != nil {
			c.setInitError("clientUseCase", err)
			return
		}

		c.clientUseCase = authUseCase.NewClientUseCaseWithMetrics(useCase, bm)
	})
	return c.clientUseCase, c.initError("clientUseCase")
}

// ZulipClient returns the upstream Zulip API client.
func (c *Container) ZulipClient() (*zulip.Client, error) {
	c.zulipClientOnce.Do(func() {
		if c.config.ZulipBotEmail == "" || c.config.ZulipBotAPIKey == "" {
			c.setInitError("zulipClient", apperrors.New("zulip bot credentials are not configured"))
			return
		}

		c.zulipClient = zulip.NewClient(
			c.config.ZulipSiteURL,
			c.config.ZulipBotEmail,
			c.config.ZulipBotAPIKey,
			c.config.ZulipTimeout,
		)
	})
	return c.zulipClient, c.initError("zulipClient")
}

// MessageUseCase returns the message use case, wrapped with metrics when enabled.
func (c *Container) MessageUseCase() (messagingUseCase.MessageUseCase, error) {
	c.messageUseCaseOnce.Do(func() {
		zulipClient, err := c.ZulipClient()
		if err != nil {
			c.setInitError("messageUseCase", err)
			return
		}

		useCase := messagingUseCase.NewMessageUseCase(zulipClient)

		bm, err := c.BusinessMetrics()
		if err != nil {
			c.setInitError("messageUseCase", err)
			return
		}

		c.messageUseCase = messagingUseCase.NewMessageUseCaseWithMetrics(useCase, bm)
	})
	return c.messageUseCase, c.initError("messageUseCase")
}

// HTTPServer returns the API server with all routes wired.
func (c *Container) HTTPServer() (*appHTTP.Server, error) {
	c.httpServerOnce.Do(func() {
		logger := c.Logger()

		clientUseCase, err := c.ClientUseCase()
		if err != nil {
			c.setInitError("httpServer", err)
			return
		}

		messageUseCase, err := c.MessageUseCase()
		if err != nil {
			c.setInitError("httpServer", err)
			return
		}

		clientHandler := authHTTP.NewClientHandler(clientUseCase, logger)
		messageHandler := messagingHTTP.NewMessageHandler(messageUseCase, logger)

		var meterProvider *metrics.Provider
		if c.config.MetricsEnabled {
			meterProvider, err = c.MetricsProvider()
			if err != nil {
				c.setInitError("httpServer", err)
				return
			}
			c.httpServer = appHTTP.NewServer(c.config, logger, clientUseCase, clientHandler, messageHandler, meterProvider.MeterProvider())
			return
		}

		c.httpServer = appHTTP.NewServer(c.config, logger, clientUseCase, clientHandler, messageHandler, nil)
	})
	return c.httpServer, c.initError("httpServer")
}

// MetricsServer returns the Prometheus scrape server.
// Fails when metrics are disabled; check Config().MetricsEnabled first.
func (c *Container) MetricsServer() (*appHTTP.MetricsServer, error) {
	c.metricsServerOnce.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.setInitError("metricsServer", err)
			return
		}

		c.metricsServer = appHTTP.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, provider, c.Logger())
	})
	return c.metricsServer, c.initError("metricsServer")
}

// Shutdown releases container resources, flushing pending metrics.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			return apperrors.Wrap(err, "failed to shutdown metrics provider")
		}
	}
	return nil
}
