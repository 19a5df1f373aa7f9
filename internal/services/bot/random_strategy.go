package bot

import (
	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
)

// RandomStrategy picks uniformly among legal moves
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseCard returns a random playable card
func (s *RandomStrategy) ChooseCard(game *model.Game, playable []model.Card) model.Card {
	return playable[s.random.Intn(len(playable))]
}

// ChooseColor returns a random playable color
func (s *RandomStrategy) ChooseColor(game *model.Game, hand []model.Card) model.Color {
	colors := model.PlayableColors()
	return colors[s.random.Intn(len(colors))]
}
