package rules

import (
	"fmt"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/deck"
)

// Draw gives the turn holder one card. Only allowed when nothing in hand is
// playable. The turn does not advance.
func (e *Engine) Draw(g *model.Game, player string) (*Outcome, error) {
	idx, err := turnHolder(g, player)
	if err != nil {
		return nil, err
	}
	if len(Playable(g.Players[idx].Hand, g.CurrentCard)) > 0 {
		return nil, model.ErrPlayableCardExists
	}
	if len(g.Deck) == 0 {
		return nil, model.ErrDeckEmpty
	}

	next := g.Clone()
	card, rest, _ := deck.DrawOne(next.Deck, e.random)
	next.Deck = rest
	next.Players[idx].Hand = append(next.Players[idx].Hand, card)

	return &Outcome{
		Game: next,
		Notifications: []model.Notification{
			stateNotification(next),
			messageNotification(next, player, fmt.Sprintf("you drew %s", card)),
		},
	}, nil
}

// SkipTurn passes the turn without playing. Only allowed when nothing in
// hand is playable.
func (e *Engine) SkipTurn(g *model.Game, player string) (*Outcome, error) {
	idx, err := turnHolder(g, player)
	if err != nil {
		return nil, err
	}
	if len(Playable(g.Players[idx].Hand, g.CurrentCard)) > 0 {
		return nil, model.ErrPlayableCardExists
	}

	next := g.Clone()
	next.CurrentPlayerIndex = step(idx, next.Direction, len(next.Players))
	return &Outcome{Game: next, Notifications: []model.Notification{stateNotification(next)}}, nil
}

// Leave removes player from the game and returns their hand to the deck.
// When one player remains they win regardless of score.
func (e *Engine) Leave(g *model.Game, player string) (*Outcome, error) {
	if g.IsFinished() {
		return nil, model.ErrGameFinished
	}
	idx := g.PlayerIndex(player)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrPlayerNotFound, player)
	}

	next := g.Clone()
	oldCount := len(next.Players)
	leaving := next.Players[idx]

	for _, card := range leaving.Hand {
		next.Deck = deck.Return(next.Deck, card)
	}
	deck.Shuffle(next.Deck, e.random)

	next.Players = append(next.Players[:idx], next.Players[idx+1:]...)
	next.CurrentPlayerIndex = reindexAfterRemoval(next.CurrentPlayerIndex, idx, oldCount)
	if leaving.IsHost && len(next.Players) > 0 {
		next.Players[0].IsHost = true
	}

	if next.Pending != nil {
		next.Pending.NextIndex = reindexAfterRemoval(next.Pending.NextIndex, idx, oldCount)
		if next.Pending.Player == player {
			colors := model.PlayableColors()
			e.resolvePending(next, colors[e.random.Intn(len(colors))])
		}
	}

	notifications := []model.Notification{messageNotification(next, player, "you left the game")}

	if len(next.Players) == 1 {
		winner := next.Players[0].Name
		finish(next, winner)
		next.CurrentPlayerIndex = 0
		notifications = append(notifications,
			stateNotification(next),
			model.RoomNotification(next.RoomCode, model.NotifyGameWon, winner, model.GameWonPayload{Winner: winner}),
		)
		return &Outcome{Game: next, Notifications: notifications}, nil
	}

	notifications = append(notifications, stateNotification(next))
	return &Outcome{Game: next, Notifications: notifications}, nil
}
