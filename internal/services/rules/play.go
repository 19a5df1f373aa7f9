package rules

import (
	"fmt"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/deck"
)

// PlayCard plays card from player's hand onto the table and resolves its effect
func (e *Engine) PlayCard(g *model.Game, player string, card model.Card) (*Outcome, error) {
	idx, err := turnHolder(g, player)
	if err != nil {
		return nil, err
	}
	if !g.Players[idx].HasCard(card) {
		return nil, fmt.Errorf("%w: %s", model.ErrCardNotInHand, card)
	}
	if g.CurrentCard == nil || !IsLegal(card, *g.CurrentCard) {
		return nil, fmt.Errorf("%w: %s", model.ErrIllegalCard, card)
	}

	next := g.Clone()
	actor := &next.Players[idx]
	actor.RemoveCard(card)
	actor.Score += CardPoints(card)

	next.Deck = deck.Return(next.Deck, *next.CurrentCard)
	deck.Shuffle(next.Deck, e.random)
	played := card
	next.CurrentCard = &played

	n := len(next.Players)
	nextIdx := step(idx, next.Direction, n)

	switch card.Rank {
	case model.RankReverse:
		next.Direction = next.Direction.Flip()
		nextIdx = step(idx, next.Direction, n)
	case model.RankSkip:
		nextIdx = step(nextIdx, next.Direction, n)
	case model.RankDraw2:
		e.forceDraw(next, nextIdx, 2)
	case model.RankDraw4:
		e.forceDraw(next, nextIdx, 4)
	}

	if winner, ok := triggeringPlayer(next, idx); ok {
		finish(next, winner)
		return &Outcome{
			Game: next,
			Notifications: []model.Notification{
				stateNotification(next),
				model.RoomNotification(next.RoomCode, model.NotifyGameOver, winner, model.GameOverPayload{
					Winner:  winner,
					Ranking: next.Ranking,
				}),
			},
		}, nil
	}

	if card.Rank.IsWildTier() {
		next.CurrentCard.Color = model.ColorBlack
		next.Pending = &model.PendingColor{Player: player, NextIndex: nextIdx}
		return &Outcome{
			Game: next,
			Notifications: []model.Notification{
				stateNotification(next),
				model.RoomNotification(next.RoomCode, model.NotifyChooseColor, player, model.ChooseColorPayload{Player: player}),
			},
		}, nil
	}

	next.CurrentPlayerIndex = nextIdx
	return &Outcome{Game: next, Notifications: []model.Notification{stateNotification(next)}}, nil
}

// ChooseColor resolves a pending wild or draw4 and hands the turn on
func (e *Engine) ChooseColor(g *model.Game, player string, color model.Color) (*Outcome, error) {
	if !color.IsPlayable() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidColor, color)
	}
	if g.IsFinished() {
		return nil, model.ErrGameFinished
	}
	if g.Pending == nil {
		return nil, model.ErrNoPendingColor
	}
	if g.PlayerIndex(player) < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrPlayerNotFound, player)
	}
	if g.Pending.Player != player {
		return nil, model.ErrNotPlayerTurn
	}

	next := g.Clone()
	e.resolvePending(next, color)
	return &Outcome{Game: next, Notifications: []model.Notification{stateNotification(next)}}, nil
}

func (e *Engine) resolvePending(g *model.Game, color model.Color) {
	g.CurrentCard.Color = color
	g.CurrentPlayerIndex = g.Pending.NextIndex
	g.Pending = nil
}

// forceDraw makes the player at victim draw up to count cards
func (e *Engine) forceDraw(g *model.Game, victim, count int) {
	var drawn []model.Card
	drawn, g.Deck = deck.DrawN(g.Deck, count, e.random)
	g.Players[victim].Hand = append(g.Players[victim].Hand, drawn...)
}

// triggeringPlayer returns the player who ended the game, preferring the
// actor when several players meet a win condition
func triggeringPlayer(g *model.Game, actor int) (string, bool) {
	if hasWon(&g.Players[actor]) {
		return g.Players[actor].Name, true
	}
	for i := range g.Players {
		if hasWon(&g.Players[i]) {
			return g.Players[i].Name, true
		}
	}
	return "", false
}
