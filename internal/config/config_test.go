package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/unogame/internal/config"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Equal(8080, cfg.Port)
	s.Equal(config.StorageMemory, cfg.StorageType)
	s.Equal(5*time.Second, cfg.RoomLockTimeout)
	s.Equal(30*time.Second, cfg.RoomLockTTL)
	s.Equal(24*time.Hour, cfg.GameTTL)
	s.Empty(cfg.AllowedOrigins)
	s.Zero(cfg.RandomSeed)
	s.Empty(cfg.OTelEndpoint)

	level, err := cfg.SlogLevel()
	s.Require().NoError(err)
	s.Equal(slog.LevelInfo, level)
}

func (s *ConfigSuite) TestOverrides() {
	s.T().Setenv("UNO_PORT", "9090")
	s.T().Setenv("STORAGE_TYPE", "redis")
	s.T().Setenv("REDIS_URL", "redis://cache:6379/1")
	s.T().Setenv("ROOM_LOCK_TIMEOUT", "250ms")
	s.T().Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	s.T().Setenv("RANDOM_SEED", "42")
	s.T().Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Equal(9090, cfg.Port)
	s.Equal(config.StorageRedis, cfg.StorageType)
	s.Equal("redis://cache:6379/1", cfg.RedisURL)
	s.Equal(250*time.Millisecond, cfg.RoomLockTimeout)
	s.Equal([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	s.Equal(uint64(42), cfg.RandomSeed)

	level, err := cfg.SlogLevel()
	s.Require().NoError(err)
	s.Equal(slog.LevelDebug, level)
}

func (s *ConfigSuite) TestRedisRequiresURL() {
	s.T().Setenv("STORAGE_TYPE", "redis")

	_, err := config.Load()
	s.ErrorContains(err, "REDIS_URL")
}

func (s *ConfigSuite) TestRejectsUnknownStorage() {
	s.T().Setenv("STORAGE_TYPE", "postgres")

	_, err := config.Load()
	s.ErrorContains(err, "STORAGE_TYPE")
}

func (s *ConfigSuite) TestRejectsBadValues() {
	s.T().Setenv("UNO_PORT", "not-a-port")
	_, err := config.Load()
	s.Error(err)

	s.T().Setenv("UNO_PORT", "8080")
	s.T().Setenv("LOG_LEVEL", "loud")
	_, err = config.Load()
	s.ErrorContains(err, "LOG_LEVEL")
}
