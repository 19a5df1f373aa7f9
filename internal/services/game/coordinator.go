// Package game runs player intents against a room's game: it serializes
// them per room, loads and saves the game around the rules engine and
// publishes the notifications each transition produces.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/unogame/internal/dependencies/clock"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/roomlock"
	"github.com/mcoot/unogame/internal/services/rules"
	"github.com/mcoot/unogame/internal/storage"
)

const tracerName = "github.com/mcoot/unogame/internal/services/game"

// Notifier delivers notifications to connected players
type Notifier interface {
	Publish(ctx context.Context, notifications []model.Notification)
}

// NopNotifier drops every notification
type NopNotifier struct{}

// Publish does nothing
func (NopNotifier) Publish(context.Context, []model.Notification) {}

// Coordinator is the only writer of games
type Coordinator struct {
	storage  storage.Storage
	locker   roomlock.Locker
	engine   *rules.Engine
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(
	store storage.Storage,
	locker roomlock.Locker,
	engine *rules.Engine,
	notifier Notifier,
	clk clock.Clock,
	logger *slog.Logger,
) *Coordinator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Coordinator{
		storage:  store,
		locker:   locker,
		engine:   engine,
		notifier: notifier,
		clock:    clk,
		logger:   logger.With(slog.String("component", "game-coordinator")),
		tracer:   otel.Tracer(tracerName),
	}
}

// StartGame deals a game for the room's current members. A finished game
// in the room is replaced; an active one is not.
func (c *Coordinator) StartGame(ctx context.Context, code model.RoomCode) (*model.Game, error) {
	return c.run(ctx, "start", code, "", func(ctx context.Context) (*rules.Outcome, error) {
		room, err := c.storage.GetRoom(ctx, code)
		if err != nil {
			return nil, c.storageError(ctx, "load room", code, err)
		}

		existing, err := c.storage.GetGame(ctx, code)
		switch {
		case err == nil && !existing.IsFinished():
			return nil, model.ErrGameInProgress
		case err != nil && !errors.Is(err, model.ErrGameNotFound):
			return nil, c.storageError(ctx, "load game", code, err)
		}

		out, err := c.engine.Start(code, room.Members)
		if err != nil {
			return nil, err
		}
		out.Game.CreatedAt = c.clock.Now()
		return out, nil
	})
}

// GetGame returns the room's current game
func (c *Coordinator) GetGame(ctx context.Context, code model.RoomCode) (*model.Game, error) {
	if err := model.ValidateIdentifier("room code", string(code)); err != nil {
		return nil, err
	}
	g, err := c.storage.GetGame(ctx, code)
	if err != nil {
		return nil, c.storageError(ctx, "load game", code, err)
	}
	return g, nil
}

// DrawCard draws one card for a player with nothing to play
func (c *Coordinator) DrawCard(ctx context.Context, code model.RoomCode, player string) (*model.Game, error) {
	return c.mutate(ctx, "draw", code, player, func(g *model.Game) (*rules.Outcome, error) {
		return c.engine.Draw(g, player)
	})
}

// PlayCard plays a card from the player's hand
func (c *Coordinator) PlayCard(ctx context.Context, code model.RoomCode, player string, card model.Card) (*model.Game, error) {
	if !card.Rank.IsValid() || (!card.Color.IsPlayable() && card.Color != model.ColorBlack) {
		return nil, fmt.Errorf("%w: unknown card %s", model.ErrInvalidRequest, card)
	}
	return c.mutate(ctx, "play", code, player, func(g *model.Game) (*rules.Outcome, error) {
		return c.engine.PlayCard(g, player, card)
	})
}

// ChooseColor resolves the player's pending wild or draw4
func (c *Coordinator) ChooseColor(ctx context.Context, code model.RoomCode, player string, color model.Color) (*model.Game, error) {
	if !color.IsPlayable() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidColor, color)
	}
	return c.mutate(ctx, "choose_color", code, player, func(g *model.Game) (*rules.Outcome, error) {
		return c.engine.ChooseColor(g, player, color)
	})
}

// SkipTurn passes the turn for a player with nothing to play
func (c *Coordinator) SkipTurn(ctx context.Context, code model.RoomCode, player string) (*model.Game, error) {
	return c.mutate(ctx, "skip", code, player, func(g *model.Game) (*rules.Outcome, error) {
		return c.engine.SkipTurn(g, player)
	})
}

// LeaveGame removes the player from the room's game
func (c *Coordinator) LeaveGame(ctx context.Context, code model.RoomCode, player string) (*model.Game, error) {
	return c.mutate(ctx, "leave", code, player, func(g *model.Game) (*rules.Outcome, error) {
		return c.engine.Leave(g, player)
	})
}

// mutate loads the game, applies one engine transition and saves it
func (c *Coordinator) mutate(
	ctx context.Context,
	op string,
	code model.RoomCode,
	player string,
	apply func(g *model.Game) (*rules.Outcome, error),
) (*model.Game, error) {
	if err := model.ValidateIdentifier("player", player); err != nil {
		return nil, err
	}
	return c.run(ctx, op, code, player, func(ctx context.Context) (*rules.Outcome, error) {
		g, err := c.storage.GetGame(ctx, code)
		if err != nil {
			return nil, c.storageError(ctx, "load game", code, err)
		}
		return apply(g)
	})
}

// run holds the room lock around transition, then persists and publishes
// its outcome. Nothing is saved or published unless transition succeeds.
func (c *Coordinator) run(
	ctx context.Context,
	op string,
	code model.RoomCode,
	player string,
	transition func(ctx context.Context) (*rules.Outcome, error),
) (game *model.Game, err error) {
	ctx, span := c.tracer.Start(ctx, "game."+op, trace.WithAttributes(
		attribute.String("room.code", string(code)),
		attribute.String("player", player),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("error.kind", string(model.KindOf(err))))
		}
		span.End()
	}()

	if err := model.ValidateIdentifier("room code", string(code)); err != nil {
		return nil, err
	}

	unlock, err := c.locker.Lock(ctx, code)
	if err != nil {
		if !errors.Is(err, model.ErrRoomBusy) {
			return nil, c.internalError(ctx, op, code, err)
		}
		c.logger.WarnContext(ctx, "room busy",
			slog.String("op", op),
			slog.String("room_code", string(code)),
		)
		return nil, err
	}
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			game = nil
			err = c.internalError(ctx, op, code, fmt.Errorf("panic: %v", r))
		}
	}()

	out, err := transition(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "intent rejected",
			slog.String("op", op),
			slog.String("room_code", string(code)),
			slog.String("player", player),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	out.Game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, out.Game); err != nil {
		return nil, c.internalError(ctx, op, code, err)
	}

	c.notifier.Publish(ctx, out.Notifications)

	c.logger.InfoContext(ctx, "intent applied",
		slog.String("op", op),
		slog.String("room_code", string(code)),
		slog.String("player", player),
		slog.String("state", string(out.Game.State)),
	)
	if out.Game.IsFinished() {
		c.logger.InfoContext(ctx, "game finished",
			slog.String("room_code", string(code)),
			slog.String("winner", out.Game.Winner),
		)
	}

	return out.Game, nil
}

// storageError passes not-found errors through and hides everything else
func (c *Coordinator) storageError(ctx context.Context, op string, code model.RoomCode, err error) error {
	if model.KindOf(err) == model.KindNotFound {
		return err
	}
	return c.internalError(ctx, op, code, err)
}

func (c *Coordinator) internalError(ctx context.Context, op string, code model.RoomCode, err error) error {
	c.logger.ErrorContext(ctx, "internal failure",
		slog.String("op", op),
		slog.String("room_code", string(code)),
		slog.String("error", err.Error()),
	)
	return model.ErrInternal
}
