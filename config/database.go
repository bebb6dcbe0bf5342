package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"driftline"`
	Password string `env:"PASSWORD" envDefault:"driftline"`
	Name     string `env:"NAME"     envDefault:"driftline"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// CredStoreConfig contains credential-store configuration.
type CredStoreConfig struct {
	// InMemory keeps credentials in process memory instead of Redis.
	// Only suitable for development and tests.
	InMemory bool `env:"IN_MEMORY" envDefault:"false"`

	// KeyPrefix namespaces credential keys in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"cred:"`

	// TTL bounds how long persisted credentials survive without a
	// fresh write. Zero disables the bound.
	TTL time.Duration `env:"TTL" envDefault:"720h"`
}

// Sanitize applies guardrails to credential-store configuration.
func (c *CredStoreConfig) Sanitize() {
	if c.TTL < 0 {
		c.TTL = 0
	}
}
