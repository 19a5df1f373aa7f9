// Package bot plays the turns of bot members. Bots act through the game
// coordinator like any other player.
package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/rules"
)

// MaxBotIterations is a safety limit for the ProcessBotActions loop
const MaxBotIterations = 1000

// maxRejections bounds consecutive rule rejections before giving up
const maxRejections = 3

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionPlay         BotActionType = "play"
	ActionChooseColor  BotActionType = "choose_color"
	ActionDraw         BotActionType = "draw"
	ActionSkip         BotActionType = "skip"
	ActionGameComplete BotActionType = "game_complete"
)

// BotAction represents a single action taken by a bot during ProcessBotActions
type BotAction struct {
	Type   BotActionType
	Player string
	Card   model.Card
	Color  model.Color
}

// Games is the part of the game coordinator bots act through
type Games interface {
	GetGame(ctx context.Context, code model.RoomCode) (*model.Game, error)
	DrawCard(ctx context.Context, code model.RoomCode, player string) (*model.Game, error)
	PlayCard(ctx context.Context, code model.RoomCode, player string, card model.Card) (*model.Game, error)
	ChooseColor(ctx context.Context, code model.RoomCode, player string, color model.Color) (*model.Game, error)
	SkipTurn(ctx context.Context, code model.RoomCode, player string) (*model.Game, error)
}

// Service drives bot turns
type Service struct {
	coordinator Games
	strategies  map[string]Strategy
	logger      *slog.Logger
}

// NewService creates a new bot Service
func NewService(coordinator Games, strategies map[string]Strategy, logger *slog.Logger) *Service {
	return &Service{
		coordinator: coordinator,
		strategies:  strategies,
		logger:      logger.With(slog.String("component", "bot-service")),
	}
}

// ProcessBotActions plays bot turns until a human has to act or the game
// ends. A bot with nothing to play draws once, plays the drawn card if it
// can and otherwise skips. An action rejected by the rules means another
// intent changed the game first, so the game is read again.
func (s *Service) ProcessBotActions(ctx context.Context, code model.RoomCode) ([]BotAction, error) {
	var actions []BotAction
	drewThisTurn := ""
	rejections := 0

	for range MaxBotIterations {
		g, err := s.coordinator.GetGame(ctx, code)
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				return actions, nil
			}
			return actions, err
		}

		if g.IsFinished() {
			if len(actions) > 0 {
				actions = append(actions, BotAction{Type: ActionGameComplete, Player: g.Winner})
			}
			break
		}

		if g.Pending != nil {
			chooser := g.GetPlayer(g.Pending.Player)
			if chooser == nil || !chooser.IsBot {
				break // Human's color to choose
			}
			color := s.strategyFor(chooser).ChooseColor(g, chooser.Hand)
			if _, err := s.coordinator.ChooseColor(ctx, code, chooser.Name, color); err != nil {
				if s.rejected(ctx, code, chooser.Name, err, &rejections) {
					continue
				}
				return actions, err
			}
			rejections = 0
			actions = append(actions, BotAction{Type: ActionChooseColor, Player: chooser.Name, Color: color})
			continue
		}

		current := g.CurrentPlayer()
		if current == nil || !current.IsBot {
			break // Human's turn
		}

		action, err := s.takeTurn(ctx, g, current, drewThisTurn == current.Name)
		if err != nil {
			if s.rejected(ctx, code, current.Name, err, &rejections) {
				drewThisTurn = ""
				continue
			}
			return actions, err
		}
		rejections = 0
		actions = append(actions, action)

		drewThisTurn = ""
		if action.Type == ActionDraw {
			drewThisTurn = current.Name
		}
	}

	if len(actions) > 0 {
		s.logger.Debug("bots acted",
			slog.String("room_code", string(code)),
			slog.Int("actions", len(actions)),
		)
	}
	return actions, nil
}

// rejected reports whether err is a rule rejection the loop should recover
// from by reading the game again
func (s *Service) rejected(ctx context.Context, code model.RoomCode, player string, err error, count *int) bool {
	if model.KindOf(err) != model.KindRuleViolation {
		return false
	}
	*count++
	if *count > maxRejections {
		return false
	}
	s.logger.DebugContext(ctx, "bot action rejected, rereading game",
		slog.String("room_code", string(code)),
		slog.String("player", player),
		slog.Any("error", err),
	)
	return true
}

func (s *Service) takeTurn(ctx context.Context, g *model.Game, bot *model.GamePlayer, alreadyDrew bool) (BotAction, error) {
	code := g.RoomCode

	if playable := rules.Playable(bot.Hand, g.CurrentCard); len(playable) > 0 {
		card := s.strategyFor(bot).ChooseCard(g, playable)
		if _, err := s.coordinator.PlayCard(ctx, code, bot.Name, card); err != nil {
			return BotAction{}, err
		}
		return BotAction{Type: ActionPlay, Player: bot.Name, Card: card}, nil
	}

	if !alreadyDrew && len(g.Deck) > 0 {
		if _, err := s.coordinator.DrawCard(ctx, code, bot.Name); err != nil {
			return BotAction{}, err
		}
		return BotAction{Type: ActionDraw, Player: bot.Name}, nil
	}

	if _, err := s.coordinator.SkipTurn(ctx, code, bot.Name); err != nil {
		return BotAction{}, err
	}
	return BotAction{Type: ActionSkip, Player: bot.Name}, nil
}

// strategyFor returns the bot's strategy, falling back to random
func (s *Service) strategyFor(bot *model.GamePlayer) Strategy {
	if st, ok := s.strategies[bot.BotStrategy]; ok {
		return st
	}
	if st, ok := s.strategies[model.BotStrategyRandom]; ok {
		return st
	}
	for _, st := range s.strategies {
		return st
	}
	return &GreedyStrategy{}
}
