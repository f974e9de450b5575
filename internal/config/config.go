package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the skipmark service.
// Environment variables are parsed from the SKIPMARK_ prefix,
// e.g. SKIPMARK_HTTP_PORT, SKIPMARK_POSTGRES_DSN.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store driver: postgres or sqlite
	DBDriver string `envconfig:"DB_DRIVER" default:"postgres"`

	// Postgres Configuration. The replica DSN is optional; read-mostly
	// statistics queries fall back to the primary when it is unset.
	PostgresDSN        string `envconfig:"POSTGRES_DSN" default:""`
	PostgresReplicaDSN string `envconfig:"POSTGRES_REPLICA_DSN" default:""`

	// SQLite Configuration (local development)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/skipmark.db"`

	// Disk cache service. Empty disables the client entirely.
	DiskCacheURL string `envconfig:"DISK_CACHE_URL" default:""`

	// Category allow-list for locks and per-category permissions.
	CategoryList []string `envconfig:"CATEGORY_LIST" default:"sponsor,selfpromo,exclusive_access,interaction,intro,outro,preview,music_offtopic,filler,poi_highlight,chapter"`

	// Reward-time clamp applied per segment when computing minutes saved.
	MaxRewardTimeSeconds float64 `envconfig:"MAX_REWARD_TIME_SECONDS" default:"86400"`
}

// ResolveDefaults validates driver selection and the category allow-list.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("SKIPMARK_POSTGRES_DSN is required for the postgres driver")
	}
	if len(c.CategoryList) == 0 {
		return fmt.Errorf("category list must not be empty")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SKIPMARK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("replica_dsn_present", cfg.PostgresReplicaDSN != "").
		Bool("disk_cache_enabled", cfg.DiskCacheURL != "").
		Int("categories", len(cfg.CategoryList)).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config suitable for unit tests.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:             8080,
		DBDriver:             "sqlite",
		SQLitePath:           ":memory:",
		CategoryList:         []string{"sponsor", "selfpromo", "interaction", "intro", "outro", "preview", "music_offtopic", "poi_highlight", "chapter"},
		MaxRewardTimeSeconds: 86400,
	}
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
