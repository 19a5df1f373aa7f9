// Package sqlite is a single-file storage backend for running the server
// without Redis while keeping rooms and games across restarts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/storage"
	"github.com/mcoot/unogame/internal/storage/sqlite/migrations"
)

// Storage persists rooms and games as JSON documents in SQLite
type Storage struct {
	sqlDB *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open opens the database at path and applies embedded migrations
func Open(ctx context.Context, path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Storage{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Storage) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encoding room %s: %w", room.Code, err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO rooms (code, name, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   name = excluded.name,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		string(room.Code),
		room.Name,
		string(data),
		room.CreatedAt.UTC().UnixMilli(),
		room.UpdatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save room %s: %w", room.Code, err)
	}
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM rooms WHERE code = ?`, string(code)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", code, err)
	}

	var room model.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, fmt.Errorf("decoding room %s: %w", code, err)
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM rooms WHERE code = ?`, string(code)); err != nil {
		return fmt.Errorf("delete room %s: %w", code, err)
	}
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	var found int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE code = ?`, string(code)).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check room %s: %w", code, err)
	}
	return true, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", game.RoomCode, err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO games (room_code, state, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(room_code) DO UPDATE SET
		   state = excluded.state,
		   data = excluded.data,
		   created_at = excluded.created_at,
		   updated_at = excluded.updated_at`,
		string(game.RoomCode),
		string(game.State),
		string(data),
		game.CreatedAt.UTC().UnixMilli(),
		game.UpdatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", game.RoomCode, err)
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, code model.RoomCode) (*model.Game, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM games WHERE room_code = ?`, string(code)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", code, err)
	}

	var game model.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", code, err)
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, code model.RoomCode) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM games WHERE room_code = ?`, string(code)); err != nil {
		return fmt.Errorf("delete game %s: %w", code, err)
	}
	return nil
}
