package bot

import (
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/rules"
)

// GreedyStrategy plays the highest scoring card and names the color it
// holds most of
type GreedyStrategy struct{}

// ChooseCard returns the playable card worth the most points
func (s *GreedyStrategy) ChooseCard(game *model.Game, playable []model.Card) model.Card {
	best := playable[0]
	for _, c := range playable[1:] {
		if rules.CardPoints(c) > rules.CardPoints(best) {
			best = c
		}
	}
	return best
}

// ChooseColor returns the most common color in hand
func (s *GreedyStrategy) ChooseColor(game *model.Game, hand []model.Card) model.Color {
	counts := make(map[model.Color]int)
	for _, c := range hand {
		counts[c.Color]++
	}
	best := model.ColorRed
	for _, color := range model.PlayableColors() {
		if counts[color] > counts[best] {
			best = color
		}
	}
	return best
}
