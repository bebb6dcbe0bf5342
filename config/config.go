package config

import (
	"os"
	"strings"
	"time"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication configuration
//   - database.go: Database and credential-store configuration
//   - http.go: HTTP server configuration
//   - realtime.go: Realtime connection configuration
type AppConfig struct {
	// IsDev controls development mode behavior (dev auth defaults,
	// relaxed cookies). Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// Credential store configuration
	CredStore CredStoreConfig `envPrefix:"CRED_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Realtime connection configuration
	Realtime RealtimeConfig `envPrefix:"REALTIME_"`

	// ContentAPIURL is the base URL of the external content API.
	ContentAPIURL string `env:"CONTENT_API_URL" envDefault:"http://localhost:9090"`

	// SessionIdleTTL evicts session runtimes (and their realtime
	// sockets) that no request has touched for this long. Zero disables
	// eviction.
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Realtime.Sanitize()
	c.CredStore.Sanitize()

	if c.SessionIdleTTL < 0 {
		c.SessionIdleTTL = 0
	}

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
