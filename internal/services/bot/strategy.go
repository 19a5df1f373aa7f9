package bot

import (
	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
)

// Strategy defines how a bot chooses cards and colors
type Strategy interface {
	// ChooseCard selects one of the playable cards, which is never empty
	ChooseCard(game *model.Game, playable []model.Card) model.Card
	// ChooseColor selects the color for a wild the bot just played
	ChooseColor(game *model.Game, hand []model.Card) model.Color
}

// DefaultStrategies returns every built-in strategy keyed by name
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyRandom: NewRandomStrategy(rnd),
		model.BotStrategyGreedy: &GreedyStrategy{},
	}
}
