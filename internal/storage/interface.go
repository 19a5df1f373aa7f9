package storage

import (
	"context"

	"github.com/mcoot/unogame/internal/model"
)

// Storage defines the interface for data persistence. Get methods return
// model.ErrRoomNotFound or model.ErrGameNotFound when nothing is stored.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// Game operations, keyed by room code
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, code model.RoomCode) (*model.Game, error)
	DeleteGame(ctx context.Context, code model.RoomCode) error
}
