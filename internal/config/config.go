// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config is the server configuration
type Config struct {
	Host string `env:"UNO_HOST"`
	Port int    `env:"UNO_PORT" envDefault:"8080"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageType string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string        `env:"REDIS_URL"`
	RoomTTL     time.Duration `env:"REDIS_ROOM_TTL" envDefault:"24h"`
	GameTTL     time.Duration `env:"REDIS_GAME_TTL" envDefault:"24h"`
	SQLitePath  string        `env:"SQLITE_PATH" envDefault:"uno.db"`

	// Room locks are shared through redis when storage is redis
	RoomLockTimeout time.Duration `env:"ROOM_LOCK_TIMEOUT" envDefault:"5s"`
	RoomLockTTL     time.Duration `env:"ROOM_LOCK_TTL" envDefault:"30s"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// RandomSeed makes shuffles reproducible when non-zero
	RandomSeed uint64 `env:"RANDOM_SEED"`

	OTelEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"unogame"`
}

// Load parses the environment into a Config and validates it
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values env parsing cannot
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=%s", StorageRedis)
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType)
	}
	if c.StorageType == StorageSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH required when STORAGE_TYPE=%s", StorageSQLite)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid UNO_PORT %d", c.Port)
	}
	if c.RoomLockTimeout <= 0 {
		return fmt.Errorf("ROOM_LOCK_TIMEOUT must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
