// Package deck builds, shuffles and draws from the 108-card draw pile.
package deck

import (
	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
)

const (
	// Size is the number of cards in a full deck
	Size = 108
	// WildCount is the number of black wild cards
	WildCount = 4
)

// Composition returns the full deck in its unshuffled construction order:
// for each color one "0", one draw4, two of each "1".."9" and two of each
// action rank, followed by the black wilds.
func Composition() []model.Card {
	cards := make([]model.Card, 0, Size)
	for _, color := range model.PlayableColors() {
		cards = append(cards,
			model.Card{Color: color, Rank: "0"},
			model.Card{Color: color, Rank: model.RankDraw4},
		)
		for _, rank := range model.NumericRanks()[1:] {
			cards = append(cards, model.Card{Color: color, Rank: rank}, model.Card{Color: color, Rank: rank})
		}
		for _, rank := range []model.Rank{model.RankSkip, model.RankReverse, model.RankDraw2} {
			cards = append(cards, model.Card{Color: color, Rank: rank}, model.Card{Color: color, Rank: rank})
		}
	}
	for i := 0; i < WildCount; i++ {
		cards = append(cards, model.Card{Color: model.ColorBlack, Rank: model.RankWild})
	}
	return cards
}

// Build returns a freshly shuffled full deck
func Build(rnd random.Random) []model.Card {
	cards := Composition()
	Shuffle(cards, rnd)
	return cards
}

// Shuffle permutes cards in place with Fisher-Yates
func Shuffle(cards []model.Card, rnd random.Random) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// DrawOne removes a uniformly random card, reusing the backing array of
// cards. The bool is false when the deck is empty.
func DrawOne(cards []model.Card, rnd random.Random) (model.Card, []model.Card, bool) {
	if len(cards) == 0 {
		return model.Card{}, cards, false
	}
	idx := rnd.Intn(len(cards))
	card := cards[idx]
	last := len(cards) - 1
	cards[idx] = cards[last]
	return card, cards[:last], true
}

// DrawN draws up to n cards, stopping early when the deck runs out
func DrawN(cards []model.Card, n int, rnd random.Random) ([]model.Card, []model.Card) {
	drawn := make([]model.Card, 0, n)
	for i := 0; i < n; i++ {
		card, rest, ok := DrawOne(cards, rnd)
		if !ok {
			break
		}
		cards = rest
		drawn = append(drawn, card)
	}
	return drawn, cards
}

// Return puts a card back into the deck. Wild cards lose their chosen color.
func Return(cards []model.Card, card model.Card) []model.Card {
	if card.Rank == model.RankWild {
		card.Color = model.ColorBlack
	}
	return append(cards, card)
}

// DrawNumeric removes a random numeric card, for opening the game. The bool
// is false when no numeric card remains.
func DrawNumeric(cards []model.Card, rnd random.Random) (model.Card, []model.Card, bool) {
	var numeric []int
	for i, c := range cards {
		if c.Rank.IsNumeric() {
			numeric = append(numeric, i)
		}
	}
	if len(numeric) == 0 {
		return model.Card{}, cards, false
	}
	idx := numeric[rnd.Intn(len(numeric))]
	card := cards[idx]
	last := len(cards) - 1
	cards[idx] = cards[last]
	return card, cards[:last], true
}
