package model

import (
	"fmt"
	"strings"
)

// Color is the color of a card
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorBlack  Color = "black" // Wild-tier cards before a color is chosen
)

// PlayableColors returns the four colors a player can choose for a wild card
func PlayableColors() []Color {
	return []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}
}

// IsPlayable returns true for the four non-black colors
func (c Color) IsPlayable() bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow:
		return true
	default:
		return false
	}
}

// ParseColor converts user input into a Color
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if c.IsPlayable() || c == ColorBlack {
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown color %q", ErrInvalidColor, s)
}

// Rank is the face of a card
type Rank string

const (
	RankSkip    Rank = "skip"
	RankReverse Rank = "reverse"
	RankDraw2   Rank = "draw2"
	RankWild    Rank = "wild"
	RankDraw4   Rank = "draw4"
)

// NumericRanks returns "0" through "9"
func NumericRanks() []Rank {
	ranks := make([]Rank, 0, 10)
	for i := 0; i <= 9; i++ {
		ranks = append(ranks, Rank(fmt.Sprintf("%d", i)))
	}
	return ranks
}

// IsNumeric returns true for the digit ranks
func (r Rank) IsNumeric() bool {
	return len(r) == 1 && r[0] >= '0' && r[0] <= '9'
}

// FaceValue returns the digit of a numeric rank, or 0
func (r Rank) FaceValue() int {
	if !r.IsNumeric() {
		return 0
	}
	return int(r[0] - '0')
}

// IsAction returns true for skip, reverse and draw2
func (r Rank) IsAction() bool {
	return r == RankSkip || r == RankReverse || r == RankDraw2
}

// IsWildTier returns true for ranks that bypass color and rank matching
func (r Rank) IsWildTier() bool {
	return r == RankWild || r == RankDraw4
}

// IsValid returns true for every rank in the deck
func (r Rank) IsValid() bool {
	return r.IsNumeric() || r.IsAction() || r.IsWildTier()
}

// ParseRank converts user input into a Rank. "+2" and "+4" are accepted as
// aliases for draw2 and draw4.
func ParseRank(s string) (Rank, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "+2":
		return RankDraw2, nil
	case "+4":
		return RankDraw4, nil
	}
	r := Rank(normalized)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown rank %q", ErrInvalidRequest, s)
	}
	return r, nil
}

// Card is an immutable card value
type Card struct {
	Color Color
	Rank  Rank
}

// String renders the card as "color:rank"
func (c Card) String() string {
	return string(c.Color) + ":" + string(c.Rank)
}

// ParseCard parses the "color:rank" form produced by String
func ParseCard(s string) (Card, error) {
	colorPart, rankPart, ok := strings.Cut(s, ":")
	if !ok {
		return Card{}, fmt.Errorf("%w: card %q must be color:rank", ErrInvalidRequest, s)
	}
	color, err := ParseColor(colorPart)
	if err != nil {
		return Card{}, err
	}
	rank, err := ParseRank(rankPart)
	if err != nil {
		return Card{}, err
	}
	return Card{Color: color, Rank: rank}, nil
}
