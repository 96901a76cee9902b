// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// ClientsFilePath is the path of the persisted client document.
	ClientsFilePath string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// ZulipSiteURL is the base URL of the Zulip server (e.g., "https://mylog.connect.xfel.eu").
	ZulipSiteURL string
	// ZulipBotEmail is the email of the Zulip bot used for relaying messages.
	ZulipBotEmail string
	// ZulipBotAPIKey is the API key of the Zulip bot.
	ZulipBotAPIKey string
	// ZulipTimeout is the bounded timeout applied to every Zulip API call.
	ZulipTimeout time.Duration

	// RateLimitEnabled indicates whether per-client rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per client.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for per-client rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// ShutdownTimeout is the grace period for draining in-flight requests on shutdown.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Client store
		ClientsFilePath: env.GetString("CLIENTS_FILE_PATH", "clients.json"),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Zulip
		ZulipSiteURL:   env.GetString("ZULIP_SITE_URL", "https://mylog.connect.xfel.eu"),
		ZulipBotEmail:  env.GetString("ZULIP_BOT_EMAIL", ""),
		ZulipBotAPIKey: env.GetString("ZULIP_BOT_API_KEY", ""),
		ZulipTimeout:   env.GetDuration("ZULIP_TIMEOUT_SECONDS", 30, time.Second),

		// Rate Limiting
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "zulip_proxy"),
		MetricsPort:      env.GetInt("METRICS_PORT", 9090),

		// Shutdown
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
