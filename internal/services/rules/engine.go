// Package rules is the turn engine. Every operation takes the current game,
// applies one intent to a copy and returns the new game together with the
// notifications the transition produced. The input game is never modified,
// so a rejected intent leaves no partial state behind.
package rules

import (
	"fmt"

	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/deck"
)

const (
	// HandSize is the number of cards dealt to each player
	HandSize = 7
	// WinningScore ends the game when any player reaches it
	WinningScore = 300
	// MinPlayers and MaxPlayers bound the table size
	MinPlayers = 2
	MaxPlayers = model.MaxRoomMembers
)

// Outcome is the result of an accepted intent
type Outcome struct {
	Game          *model.Game
	Notifications []model.Notification
}

// Engine applies game rules
type Engine struct {
	random random.Random
}

// NewEngine creates a new Engine
func NewEngine(rnd random.Random) *Engine {
	return &Engine{random: rnd}
}

// Start deals a new game for the given room members in seating order
func (e *Engine) Start(code model.RoomCode, members []model.RoomMember) (*Outcome, error) {
	if len(members) < MinPlayers || len(members) > MaxPlayers {
		return nil, fmt.Errorf("%w: room has %d", model.ErrWrongPlayerCount, len(members))
	}

	cards := deck.Build(e.random)

	players := make([]model.GamePlayer, len(members))
	for i, m := range members {
		var hand []model.Card
		hand, cards = deck.DrawN(cards, HandSize, e.random)
		players[i] = model.GamePlayer{
			Name:        m.Name,
			IsHost:      m.IsHost,
			IsBot:       m.IsBot,
			BotStrategy: m.BotStrategy,
			Hand:        hand,
		}
	}

	opening, cards, ok := deck.DrawNumeric(cards, e.random)
	if !ok {
		return nil, model.ErrNoNumericCard
	}

	g := &model.Game{
		RoomCode:           code,
		State:              model.GameStateActive,
		Players:            players,
		Deck:               cards,
		CurrentCard:        &opening,
		CurrentPlayerIndex: 0,
		Direction:          model.DirectionForward,
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}

	return &Outcome{
		Game: g,
		Notifications: []model.Notification{
			model.RoomNotification(code, model.NotifyGameStarted, "", model.GameStartedPayload{Players: names}),
			stateNotification(g),
		},
	}, nil
}

// step returns the seat one move from idx in the given direction
func step(idx int, dir model.Direction, n int) int {
	if n == 0 {
		return 0
	}
	return ((idx+int(dir))%n + n) % n
}

// reindexAfterRemoval maps a seat index onto the table that remains after
// the seat at removed leaves a table of oldCount players. Seats after the
// removed one shift down by one; a pointer at the removed seat stays in
// place, landing on the player who followed, and wraps to the first seat
// when the removed seat was last.
func reindexAfterRemoval(idx, removed, oldCount int) int {
	newCount := oldCount - 1
	if newCount <= 0 {
		return 0
	}
	switch {
	case removed < idx:
		return idx - 1
	case removed == idx:
		return idx % newCount
	default:
		return idx
	}
}

// turnHolder validates that player may act on g and returns their seat
func turnHolder(g *model.Game, player string) (int, error) {
	if g.IsFinished() {
		return -1, model.ErrGameFinished
	}
	if g.Pending != nil {
		return -1, model.ErrColorChoicePending
	}
	idx := g.PlayerIndex(player)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", model.ErrPlayerNotFound, player)
	}
	if idx != g.CurrentPlayerIndex {
		return -1, model.ErrNotPlayerTurn
	}
	return idx, nil
}

// finish moves g into the finished state with the given winner
func finish(g *model.Game, winner string) {
	g.State = model.GameStateFinished
	g.Pending = nil
	g.Winner = winner
	g.Ranking = Rank(g.Players)
}

func stateNotification(g *model.Game) model.Notification {
	return model.RoomNotification(g.RoomCode, model.NotifyGameState, "", model.GameStatePayload{Game: g})
}

func messageNotification(g *model.Game, player, message string) model.Notification {
	return model.RequesterNotification(g.RoomCode, model.NotifyGameMessage, player, model.MessagePayload{Message: message})
}
