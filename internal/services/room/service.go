// Package room manages room membership. The persisted Room is the only
// record of who is in a room.
package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/unogame/internal/dependencies/clock"
	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/roomlock"
	"github.com/mcoot/unogame/internal/services/game"
	"github.com/mcoot/unogame/internal/storage"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet is the characters used in room codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// maxCodeAttempts bounds the search for an unused code
	maxCodeAttempts = 20
	// botNamePrefix names bot members bot-1, bot-2, ...
	botNamePrefix = "bot-"
)

// Service manages room membership
type Service struct {
	storage     storage.Storage
	locker      roomlock.Locker
	coordinator *game.Coordinator
	notifier    game.Notifier
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// NewService creates a new room Service
func NewService(
	store storage.Storage,
	locker roomlock.Locker,
	coordinator *game.Coordinator,
	notifier game.Notifier,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	if notifier == nil {
		notifier = game.NopNotifier{}
	}
	return &Service{
		storage:     store,
		locker:      locker,
		coordinator: coordinator,
		notifier:    notifier,
		clock:       clk,
		random:      rnd,
		logger:      logger.With(slog.String("component", "room-service")),
	}
}

// CreateRoom creates a room with host as its only member
func (s *Service) CreateRoom(ctx context.Context, name, host string) (*model.Room, error) {
	if err := model.ValidateIdentifier("player", host); err != nil {
		return nil, err
	}
	if name == "" {
		name = host + "'s room"
	}

	code, err := s.newCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	room := &model.Room{
		Code: code,
		Name: name,
		Members: []model.RoomMember{
			{Name: host, IsHost: true, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		s.logger.Error("failed to save room",
			slog.String("room_code", string(code)),
			slog.String("error", err.Error()),
		)
		return nil, model.ErrInternal
	}

	s.logger.Info("room created",
		slog.String("room_code", string(code)),
		slog.String("host", host),
	)
	return room, nil
}

// GetRoom retrieves a room by code
func (s *Service) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	if err := model.ValidateIdentifier("room code", string(code)); err != nil {
		return nil, err
	}
	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, s.storageError("load room", code, err)
	}
	return room, nil
}

// JoinRoom adds a player to a room
func (s *Service) JoinRoom(ctx context.Context, code model.RoomCode, player string) (*model.Room, error) {
	return s.update(ctx, code, player, func(room *model.Room) error {
		if room.GetMember(player) != nil {
			return model.ErrAlreadyInRoom
		}
		if room.IsFull() {
			return model.ErrRoomFull
		}
		room.Members = append(room.Members, model.RoomMember{Name: player, JoinedAt: s.clock.Now()})
		return nil
	})
}

// LeaveRoom removes a player from a room and from its game. The host role
// passes to the longest-standing human member.
func (s *Service) LeaveRoom(ctx context.Context, code model.RoomCode, player string) (*model.Room, error) {
	room, err := s.update(ctx, code, player, func(room *model.Room) error {
		return removeMember(room, player)
	})
	if err != nil {
		return nil, err
	}
	s.leaveGame(ctx, code, player)
	return room, nil
}

// KickPlayer lets the host remove another member
func (s *Service) KickPlayer(ctx context.Context, code model.RoomCode, host, target string) (*model.Room, error) {
	if err := model.ValidateIdentifier("target", target); err != nil {
		return nil, err
	}
	room, err := s.update(ctx, code, host, func(room *model.Room) error {
		if err := requireHost(room, host); err != nil {
			return err
		}
		if host == target {
			return model.ErrCannotKickSelf
		}
		return removeMember(room, target)
	})
	if err != nil {
		return nil, err
	}
	s.leaveGame(ctx, code, target)
	return room, nil
}

// AddBot lets the host seat a bot playing the given strategy
func (s *Service) AddBot(ctx context.Context, code model.RoomCode, host, strategy string) (*model.Room, error) {
	if strategy == "" {
		strategy = model.BotStrategyRandom
	}
	if !model.IsValidBotStrategy(strategy) {
		return nil, fmt.Errorf("%w: unknown bot strategy %q", model.ErrInvalidRequest, strategy)
	}
	return s.update(ctx, code, host, func(room *model.Room) error {
		if err := requireHost(room, host); err != nil {
			return err
		}
		if room.IsFull() {
			return model.ErrRoomFull
		}
		room.Members = append(room.Members, model.RoomMember{
			Name:        nextBotName(room),
			IsBot:       true,
			BotStrategy: strategy,
			JoinedAt:    s.clock.Now(),
		})
		return nil
	})
}

// update runs change against the room under the room lock and saves it.
// A room left without human members is deleted together with its game.
func (s *Service) update(ctx context.Context, code model.RoomCode, player string, change func(room *model.Room) error) (*model.Room, error) {
	if err := model.ValidateIdentifier("room code", string(code)); err != nil {
		return nil, err
	}
	if err := model.ValidateIdentifier("player", player); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, code)
	if err != nil {
		return nil, err
	}
	defer unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, s.storageError("load room", code, err)
	}

	if err := change(room); err != nil {
		return nil, err
	}
	room.UpdatedAt = s.clock.Now()

	if !hasHuman(room) {
		room.Members = nil
		if err := s.storage.DeleteGame(ctx, code); err != nil {
			return nil, s.storageError("delete game", code, err)
		}
		if err := s.storage.DeleteRoom(ctx, code); err != nil {
			return nil, s.storageError("delete room", code, err)
		}
		s.logger.Info("room deleted", slog.String("room_code", string(code)))
		return room, nil
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, s.storageError("save room", code, err)
	}

	s.notifier.Publish(ctx, []model.Notification{
		model.RoomNotification(code, model.NotifyRoomUpdated, player, model.RoomUpdatedPayload{Room: room.Clone()}),
	})
	return room, nil
}

// leaveGame removes player from the room's game when they are still seated
func (s *Service) leaveGame(ctx context.Context, code model.RoomCode, player string) {
	_, err := s.coordinator.LeaveGame(ctx, code, player)
	switch {
	case err == nil:
		s.logger.Info("player left game with room",
			slog.String("room_code", string(code)),
			slog.String("player", player),
		)
	case errors.Is(err, model.ErrGameNotFound), errors.Is(err, model.ErrPlayerNotFound), errors.Is(err, model.ErrGameFinished):
	default:
		s.logger.Warn("failed to remove player from game",
			slog.String("room_code", string(code)),
			slog.String("player", player),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) newCode(ctx context.Context) (model.RoomCode, error) {
	for range maxCodeAttempts {
		code := model.RoomCode(s.random.String(CodeLength, CodeAlphabet))
		if len(code) != CodeLength {
			continue
		}
		exists, err := s.storage.RoomExists(ctx, code)
		if err != nil {
			return "", s.storageError("check room", code, err)
		}
		if !exists {
			return code, nil
		}
	}
	s.logger.Error("could not find an unused room code")
	return "", model.ErrInternal
}

func (s *Service) storageError(op string, code model.RoomCode, err error) error {
	if model.KindOf(err) == model.KindNotFound {
		return err
	}
	s.logger.Error("storage failure",
		slog.String("op", op),
		slog.String("room_code", string(code)),
		slog.String("error", err.Error()),
	)
	return model.ErrInternal
}

func requireHost(room *model.Room, player string) error {
	host := room.GetHost()
	if host == nil || host.Name != player {
		return model.ErrNotHost
	}
	return nil
}

func removeMember(room *model.Room, name string) error {
	for i, m := range room.Members {
		if m.Name != name {
			continue
		}
		room.Members = append(room.Members[:i], room.Members[i+1:]...)
		if m.IsHost {
			for j := range room.Members {
				if !room.Members[j].IsBot {
					room.Members[j].IsHost = true
					break
				}
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s", model.ErrPlayerNotFound, name)
}

func hasHuman(room *model.Room) bool {
	for _, m := range room.Members {
		if !m.IsBot {
			return true
		}
	}
	return false
}

func nextBotName(room *model.Room) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", botNamePrefix, i)
		if room.GetMember(name) == nil {
			return name
		}
	}
}
