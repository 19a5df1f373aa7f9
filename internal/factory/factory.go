package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/unogame/internal/dependencies/clock"
	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/realtime"
	"github.com/mcoot/unogame/internal/roomlock"
	"github.com/mcoot/unogame/internal/services/bot"
	"github.com/mcoot/unogame/internal/services/game"
	"github.com/mcoot/unogame/internal/services/room"
	"github.com/mcoot/unogame/internal/services/rules"
	"github.com/mcoot/unogame/internal/storage"
	"github.com/mcoot/unogame/internal/storage/memory"
	redisstorage "github.com/mcoot/unogame/internal/storage/redis"
	"github.com/mcoot/unogame/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Locker  roomlock.Locker

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Engine      *rules.Engine
	Coordinator *game.Coordinator
	RoomService *room.Service
	BotService  *bot.Service

	// Realtime
	HubManager *realtime.HubManager
	Publisher  *realtime.Publisher

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// LockTimeout bounds how long an intent waits for its room (optional)
	LockTimeout time.Duration
	// LockTTL is how long a redis room lock survives a crashed holder (optional)
	LockTTL time.Duration
	// RandomSeed makes shuffles reproducible when non-zero
	RandomSeed uint64
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	lockTimeout := cfg.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = roomlock.DefaultTimeout
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = roomlock.DefaultTTL
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	clk := clock.New()

	var (
		store   storage.Storage
		locker  roomlock.Locker
		closers []io.Closer
	)
	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
		locker = roomlock.NewLocal(lockTimeout)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		// Several servers may share the store, so rooms lock in redis too
		locker = roomlock.NewRedis(redisStore.Client(), clk, lockTTL, lockTimeout, logger)
		closers = append(closers, redisStore)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store = sqliteStore
		locker = roomlock.NewLocal(lockTimeout)
		closers = append(closers, sqliteStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	var rnd random.Random = random.New()
	if cfg.RandomSeed != 0 {
		rnd = random.NewSeeded(cfg.RandomSeed)
	}

	app := newWithDependencies(store, locker, clk, rnd, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, locker roomlock.Locker, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	hubManager := realtime.NewHubManager(logger)
	publisher := realtime.NewPublisher(hubManager, logger)
	engine := rules.NewEngine(rnd)
	coordinator := game.NewCoordinator(store, locker, engine, publisher, clk, logger)
	roomService := room.NewService(store, locker, coordinator, publisher, clk, rnd, logger)
	botService := bot.NewService(coordinator, bot.DefaultStrategies(rnd), logger)

	return &App{
		Storage:     store,
		Locker:      locker,
		Clock:       clk,
		Random:      rnd,
		Engine:      engine,
		Coordinator: coordinator,
		RoomService: roomService,
		BotService:  botService,
		HubManager:  hubManager,
		Publisher:   publisher,
	}
}

// Close disconnects realtime clients and releases storage connections
func (a *App) Close() error {
	a.HubManager.Close()
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
