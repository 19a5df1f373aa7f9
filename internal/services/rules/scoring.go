package rules

import (
	"sort"

	"github.com/mcoot/unogame/internal/model"
)

// Point values per rank tier
const (
	WildPoints   = 50
	ActionPoints = 20
)

// CardPoints returns the score awarded for playing card
func CardPoints(card model.Card) int {
	switch {
	case card.Rank.IsWildTier():
		return WildPoints
	case card.Rank.IsAction():
		return ActionPoints
	case card.Rank.IsNumeric():
		return card.Rank.FaceValue()
	default:
		return 0
	}
}

// IsLegal reports whether card may be played onto current
func IsLegal(card, current model.Card) bool {
	if card.Rank.IsWildTier() {
		return true
	}
	return card.Color == current.Color || card.Rank == current.Rank
}

// Playable returns the cards in hand that may be played onto current
func Playable(hand []model.Card, current *model.Card) []model.Card {
	if current == nil {
		return nil
	}
	var playable []model.Card
	for _, c := range hand {
		if IsLegal(c, *current) {
			playable = append(playable, c)
		}
	}
	return playable
}

// Rank orders players by descending score. Ties keep seating order.
func Rank(players []model.GamePlayer) []model.Standing {
	standings := make([]model.Standing, len(players))
	for i, p := range players {
		standings[i] = model.Standing{Name: p.Name, Score: p.Score, CardsLeft: len(p.Hand)}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}

// hasWon reports whether p satisfies a win condition
func hasWon(p *model.GamePlayer) bool {
	return p.Score >= WinningScore || len(p.Hand) == 0
}
