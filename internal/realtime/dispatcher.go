package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/api/request"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/bot"
)

// IntentType names an inbound player intent
type IntentType string

const (
	IntentStartGame   IntentType = "start-game"
	IntentGetGame     IntentType = "get-game"
	IntentDrawCard    IntentType = "draw-card"
	IntentPlayCard    IntentType = "play-card"
	IntentColorChosen IntentType = "color-chosen"
	IntentSkipTurn    IntentType = "skip-turn"
	IntentLeaveGame   IntentType = "leave-game"
)

// Intent is the wire envelope for an inbound intent
type Intent struct {
	Type    IntentType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type playCardPayload struct {
	Card request.Card `json:"card"`
}

type colorChosenPayload struct {
	Color string `json:"color"`
}

// GameService is the set of game operations intents map onto
type GameService interface {
	StartGame(ctx context.Context, code model.RoomCode) (*model.Game, error)
	GetGame(ctx context.Context, code model.RoomCode) (*model.Game, error)
	DrawCard(ctx context.Context, code model.RoomCode, player string) (*model.Game, error)
	PlayCard(ctx context.Context, code model.RoomCode, player string, card model.Card) (*model.Game, error)
	ChooseColor(ctx context.Context, code model.RoomCode, player string, color model.Color) (*model.Game, error)
	SkipTurn(ctx context.Context, code model.RoomCode, player string) (*model.Game, error)
	LeaveGame(ctx context.Context, code model.RoomCode, player string) (*model.Game, error)
}

// BotRunner plays bot turns after a human intent
type BotRunner interface {
	ProcessBotActions(ctx context.Context, code model.RoomCode) ([]bot.BotAction, error)
}

// Dispatcher maps inbound intents onto game operations. Room-wide effects
// reach players through the Publisher; Dispatch only returns what is
// addressed to the requester.
type Dispatcher struct {
	games  GameService
	bots   BotRunner
	logger *slog.Logger
}

// NewDispatcher creates a new Dispatcher. bots may be nil.
func NewDispatcher(games GameService, bots BotRunner, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		games:  games,
		bots:   bots,
		logger: logger.With(slog.String("component", "intent-dispatcher")),
	}
}

// Dispatch applies intent on behalf of player and returns the requester's
// notifications: the snapshot for get-game, or the rejection.
func (d *Dispatcher) Dispatch(ctx context.Context, code model.RoomCode, player string, intent Intent) []model.Notification {
	g, err := d.apply(ctx, code, player, intent)
	if err != nil {
		return []model.Notification{d.rejection(ctx, code, player, intent.Type, err)}
	}

	if intent.Type == IntentGetGame {
		return []model.Notification{
			model.RequesterNotification(code, model.NotifyGameState, player, model.GameStatePayload{Game: g}),
		}
	}

	if d.bots != nil {
		if _, err := d.bots.ProcessBotActions(ctx, code); err != nil {
			d.logger.ErrorContext(ctx, "bot actions failed",
				slog.String("room_code", string(code)),
				slog.Any("error", err))
		}
	}
	return nil
}

func (d *Dispatcher) apply(ctx context.Context, code model.RoomCode, player string, intent Intent) (*model.Game, error) {
	switch intent.Type {
	case IntentStartGame:
		return d.games.StartGame(ctx, code)
	case IntentGetGame:
		return d.games.GetGame(ctx, code)
	case IntentDrawCard:
		return d.games.DrawCard(ctx, code, player)
	case IntentPlayCard:
		var p playCardPayload
		if err := decodePayload(intent.Payload, &p); err != nil {
			return nil, err
		}
		card, err := p.Card.ToModel()
		if err != nil {
			return nil, err
		}
		return d.games.PlayCard(ctx, code, player, card)
	case IntentColorChosen:
		var p colorChosenPayload
		if err := decodePayload(intent.Payload, &p); err != nil {
			return nil, err
		}
		color, err := model.ParseColor(p.Color)
		if err != nil {
			return nil, err
		}
		return d.games.ChooseColor(ctx, code, player, color)
	case IntentSkipTurn:
		return d.games.SkipTurn(ctx, code, player)
	case IntentLeaveGame:
		return d.games.LeaveGame(ctx, code, player)
	default:
		return nil, fmt.Errorf("%w: unknown intent %q", model.ErrInvalidRequest, intent.Type)
	}
}

// rejection converts err into a requester notification. Room lookups fail
// as room errors; everything else is a game error.
func (d *Dispatcher) rejection(ctx context.Context, code model.RoomCode, player string, intent IntentType, err error) model.Notification {
	_, apiErr := apierr.FromError(err)
	if apiErr.Code == apierr.CodeInternalError {
		d.logger.ErrorContext(ctx, "intent failed",
			slog.String("room_code", string(code)),
			slog.String("player", player),
			slog.String("intent", string(intent)),
			slog.Any("error", err))
	}

	t := model.NotifyGameError
	if errors.Is(err, model.ErrRoomNotFound) {
		t = model.NotifyRoomError
	}
	return model.RequesterNotification(code, t, player, model.ErrorPayload{
		Code:    apiErr.Code,
		Message: apiErr.Message,
	})
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is required", model.ErrInvalidRequest)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: malformed payload", model.ErrInvalidRequest)
	}
	return nil
}
