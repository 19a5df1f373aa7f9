// Package roomlock provides the exclusive per-room critical section that
// serializes every mutation of a room's game.
package roomlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/unogame/internal/model"
)

// DefaultTimeout bounds how long Lock waits before reporting the room busy
const DefaultTimeout = 5 * time.Second

// Locker hands out exclusive access to a room. The returned unlock func
// must be called exactly once; calling it again is a no-op.
type Locker interface {
	Lock(ctx context.Context, code model.RoomCode) (unlock func(), err error)
}

// Local is an in-process Locker. Rooms never contend with each other and
// idle rooms hold no memory.
type Local struct {
	mu      sync.Mutex
	rooms   map[model.RoomCode]*entry
	timeout time.Duration
}

type entry struct {
	sem  chan struct{}
	refs int
}

// NewLocal creates a Local locker that gives up after timeout
func NewLocal(timeout time.Duration) *Local {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Local{
		rooms:   make(map[model.RoomCode]*entry),
		timeout: timeout,
	}
}

// Ensure Local implements Locker
var _ Locker = (*Local)(nil)

// Lock waits for exclusive access to the room
func (l *Local) Lock(ctx context.Context, code model.RoomCode) (func(), error) {
	e := l.acquire(code)

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				l.release(code, e)
			})
		}, nil
	case <-timer.C:
		l.release(code, e)
		return nil, fmt.Errorf("%w: waited %s for room %s", model.ErrRoomBusy, l.timeout, code)
	case <-ctx.Done():
		l.release(code, e)
		return nil, fmt.Errorf("%w: %v", model.ErrRoomBusy, ctx.Err())
	}
}

// Rooms returns the number of rooms currently locked or waited on
func (l *Local) Rooms() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}

func (l *Local) acquire(code model.RoomCode) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.rooms[code]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.rooms[code] = e
	}
	e.refs++
	return e
}

func (l *Local) release(code model.RoomCode, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.rooms, code)
	}
}
