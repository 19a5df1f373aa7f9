package roomlock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	uuid "github.com/satori/go.uuid"

	"github.com/mcoot/unogame/internal/dependencies/clock"
	"github.com/mcoot/unogame/internal/model"
	redisstorage "github.com/mcoot/unogame/internal/storage/redis"
)

const (
	// DefaultTTL expires a lock whose holder died without releasing it
	DefaultTTL = 30 * time.Second
	// retryInterval is how often a waiting Lock polls the key
	retryInterval = 25 * time.Millisecond
)

// releaseScript deletes the lock only if this holder still owns it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every server process using the same Redis
type Redis struct {
	client  *redis.Client
	clock   clock.Clock
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

// NewRedis creates a Redis locker. clk measures the acquisition timeout.
func NewRedis(client *redis.Client, clk clock.Clock, ttl, timeout time.Duration, logger *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Redis{
		client:  client,
		clock:   clk,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "room-lock")),
	}
}

// Ensure Redis implements Locker
var _ Locker = (*Redis)(nil)

// Lock polls SET NX until the room is free or the timeout passes
func (r *Redis) Lock(ctx context.Context, code model.RoomCode) (func(), error) {
	key := redisstorage.LockKey(code)
	token := uuid.NewV4().String()
	deadline := r.clock.Now().Add(r.timeout)

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring lock for room %s: %w", code, err)
		}
		if ok {
			return r.unlockFunc(key, token), nil
		}
		if r.clock.Now().After(deadline) {
			return nil, fmt.Errorf("%w: waited %s for room %s", model.ErrRoomBusy, r.timeout, code)
		}

		wait := time.NewTimer(retryInterval)
		select {
		case <-ctx.Done():
			wait.Stop()
			return nil, fmt.Errorf("%w: %v", model.ErrRoomBusy, ctx.Err())
		case <-wait.C:
		}
	}
}

func (r *Redis) unlockFunc(key, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
			r.logger.Error("failed to release room lock",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}
