package config

import (
	"os"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Upstream HMS service that owns cases, hospitals and accounts
	UpstreamURL     string
	UpstreamTimeout time.Duration

	// Optional stores. Empty disables triage statistics / uses in-memory sessions.
	DatabaseURL string
	RedisURL    string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// Session
	SessionSecret      string // Used for encrypting cookies (min 32 chars)
	SessionIdleTimeout time.Duration

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Clinical catalog (triage table, instructions, feature cards)
	CatalogFile string

	// Timers
	QueuePollInterval time.Duration // env: QUEUE_POLL_INTERVAL, default: 30s
	AlertDismissAfter time.Duration // env: ALERT_DISMISS_AFTER, default: 5s

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Smart Care HMS"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		ServerAddr:         getEnv("SERVER_ADDR", ":3000"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:3000"),
		UpstreamURL:        getEnv("UPSTREAM_URL", "http://localhost:8000"),
		UpstreamTimeout:    getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		TLSEnabled:         getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:        getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:         getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:          getEnv("TLS_CA_FILE", ""),
		SessionSecret:      getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		SessionIdleTimeout: getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		CORSOrigins:        getEnv("CORS_ORIGINS", ""),
		CatalogFile:        getEnv("CATALOG_FILE", "catalog.yaml"),
		QueuePollInterval:  getDuration("QUEUE_POLL_INTERVAL", 30*time.Second),
		AlertDismissAfter:  getDuration("ALERT_DISMISS_AFTER", 5*time.Second),

		SiteTitle:   getEnv("SITE_TITLE", "Smart Care HMS"),
		SiteTagline: getEnv("SITE_TAGLINE", "Emergency care, prioritised"),
		SiteFooter:  getEnv("SITE_FOOTER", "Smart Care HMS - Emergency & Home Care"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDuration parses a Go duration from the environment, using fallback when
// unset or malformed.
func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// StatsEnabled reports whether triage statistics should be persisted.
func (c *Config) StatsEnabled() bool {
	return c.DatabaseURL != ""
}
