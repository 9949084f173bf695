package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting the server needs. Values come from the
// environment (prefix LICENSE_); main loads an optional .env file first.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// DBDriver is "sqlite" or "mysql". DBDSN is the file path for SQLite
	// or a full DSN for MySQL.
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN    string `envconfig:"DB_DSN" default:"./license.db"`

	// SigningSecrets is an ordered, comma-separated list. The first entry
	// signs new entitlement responses; every entry is accepted during
	// verification so secrets can be rotated without invalidating caches.
	SigningSecrets []string `envconfig:"SIGNING_SECRETS" default:"change-this-signing-secret"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"change-this-jwt-secret"`

	// Validation endpoint throttling, counted per source address over a
	// trailing window.
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1h"`

	// Retention for validation log pruning, in days. Values below 30 are
	// raised to 30 by the scheduler.
	LogRetentionDays int `envconfig:"LOG_RETENTION_DAYS" default:"90"`

	LogDir   string `envconfig:"LOG_DIR" default:"./logs"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Bootstrap credentials for the first admin account. Only used when the
	// admins table is empty.
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin1234"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("LICENSE", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported db driver: %s", c.DBDriver)
	}

	if len(c.SigningSecrets) == 0 || strings.TrimSpace(c.SigningSecrets[0]) == "" {
		return fmt.Errorf("at least one signing secret is required")
	}

	if c.RateLimitMax < 1 {
		return fmt.Errorf("rate limit must allow at least one request")
	}

	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}

	return nil
}
