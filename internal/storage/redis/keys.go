package redis

import (
	"fmt"

	"github.com/mcoot/unogame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "uno"

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// gameKey returns the Redis key for a room's Game
func gameKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, code)
}

// LockKey returns the Redis key guarding a room's critical section
func LockKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:lock:room:%s", keyPrefix, code)
}
