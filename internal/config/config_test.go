package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "clients.json", cfg.ClientsFilePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://mylog.connect.xfel.eu", cfg.ZulipSiteURL)
	assert.Equal(t, 30*time.Second, cfg.ZulipTimeout)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 10.0, cfg.RateLimitRequestsPerSec)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.False(t, cfg.CORSEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "zulip_proxy", cfg.MetricsNamespace)
	assert.Equal(t, 9090, cfg.MetricsPort)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("CLIENTS_FILE_PATH", "/var/lib/proxy/clients.json")
	t.Setenv("ZULIP_SITE_URL", "https://chat.example.com")
	t.Setenv("ZULIP_BOT_EMAIL", "bot@example.com")
	t.Setenv("ZULIP_BOT_API_KEY", "secret-key")
	t.Setenv("ZULIP_TIMEOUT_SECONDS", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("METRICS_NAMESPACE", "custom")

	cfg := Load()

	assert.Equal(t, 9999, cfg.ServerPort)
	assert.Equal(t, "/var/lib/proxy/clients.json", cfg.ClientsFilePath)
	assert.Equal(t, "https://chat.example.com", cfg.ZulipSiteURL)
	assert.Equal(t, "bot@example.com", cfg.ZulipBotEmail)
	assert.Equal(t, "secret-key", cfg.ZulipBotAPIKey)
	assert.Equal(t, 5*time.Second, cfg.ZulipTimeout)
	assert.False(t, cfg.RateLimitEnabled)
	assert.Equal(t, "custom", cfg.MetricsNamespace)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		want     string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, cfg.GetGinMode())
		})
	}
}
