package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/config"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/metrics"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		ServerHost:       "127.0.0.1",
		ServerPort:       8080,
		ClientsFilePath:  filepath.Join(t.TempDir(), "clients.json"),
		LogLevel:         "error",
		ZulipSiteURL:     "https://zulip.example.com",
		ZulipBotEmail:    "bot@example.com",
		ZulipBotAPIKey:   "api-key",
		ZulipTimeout:     5 * time.Second,
		MetricsNamespace: "zulip_proxy",
	}
}

func TestContainerLogger(t *testing.T) {
	container := NewContainer(testConfig(t))

	logger := container.Logger()
	require.NotNil(t, logger)

	// Same instance on repeated access
	assert.Same(t, logger, container.Logger())
}

func TestContainerClientRepository(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		container := NewContainer(testConfig(t))

		repo, err := container.ClientRepository()
		require.NoError(t, err)
		require.NotNil(t, repo)

		again, err := container.ClientRepository()
		require.NoError(t, err)
		assert.Same(t, repo, again)
	})

	t.Run("CorruptDocumentRefusesStartup", func(t *testing.T) {
		cfg := testConfig(t)
		require.NoError(t, os.WriteFile(cfg.ClientsFilePath, []byte("{not json"), 0o600))

		container := NewContainer(cfg)

		_, err := container.ClientRepository()
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrStoreCorrupt))

		// Error is remembered on subsequent access
		_, err = container.ClientRepository()
		assert.Error(t, err)
	})
}

func TestContainerClientUseCase(t *testing.T) {
	container := NewContainer(testConfig(t))

	useCase, err := container.ClientUseCase()
	require.NoError(t, err)
	require.NotNil(t, useCase)

	output, err := useCase.Create(context.Background(), &authDomain.CreateClientInput{
		ProposalNo: 2619,
		Stream:     "proposal 2619",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.Token)
}

func TestContainerZulipClient(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		container := NewContainer(testConfig(t))

		client, err := container.ZulipClient()
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.ZulipBotAPIKey = ""
		container := NewContainer(cfg)

		_, err := container.ZulipClient()
		assert.Error(t, err)
	})
}

func TestContainerMetrics(t *testing.T) {
	t.Run("DisabledProviderFails", func(t *testing.T) {
		container := NewContainer(testConfig(t))

		_, err := container.MetricsProvider()
		assert.Error(t, err)
	})

	t.Run("DisabledBusinessMetricsIsNoOp", func(t *testing.T) {
		container := NewContainer(testConfig(t))

		bm, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.IsType(t, &metrics.NoOpBusinessMetrics{}, bm)
	})

	t.Run("Enabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.MetricsEnabled = true
		container := NewContainer(cfg)

		provider, err := container.MetricsProvider()
		require.NoError(t, err)
		require.NotNil(t, provider)

		bm, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.NotNil(t, bm)

		server, err := container.MetricsServer()
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestContainerHTTPServer(t *testing.T) {
	container := NewContainer(testConfig(t))

	server, err := container.HTTPServer()
	require.NoError(t, err)
	require.NotNil(t, server)

	again, err := container.HTTPServer()
	require.NoError(t, err)
	assert.Same(t, server, again)
}

func TestContainerShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = true
	container := NewContainer(cfg)

	_, err := container.MetricsProvider()
	require.NoError(t, err)

	assert.NoError(t, container.Shutdown(context.Background()))
}
