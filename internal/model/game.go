package model

import "time"

// GameState represents the current phase of a game. The pre-game lobby is
// represented by a Room without a Game record.
type GameState string

const (
	GameStateActive   GameState = "active"   // Players are taking turns
	GameStateFinished GameState = "finished" // A win condition was met
)

// Direction is the order in which turns pass around the table
type Direction int

const (
	DirectionForward  Direction = 1
	DirectionBackward Direction = -1
)

// Flip returns the opposite direction
func (d Direction) Flip() Direction {
	if d == DirectionBackward {
		return DirectionForward
	}
	return DirectionBackward
}

// GamePlayer is a seat in a game
type GamePlayer struct {
	Name        string
	IsHost      bool
	IsBot       bool
	BotStrategy string
	Hand        []Card
	Score       int
}

// HasCard returns true if the card is in the player's hand
func (p *GamePlayer) HasCard(card Card) bool {
	return p.cardIndex(card) >= 0
}

// RemoveCard removes one instance of the card from the hand
func (p *GamePlayer) RemoveCard(card Card) bool {
	idx := p.cardIndex(card)
	if idx < 0 {
		return false
	}
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return true
}

func (p *GamePlayer) cardIndex(card Card) int {
	for i, c := range p.Hand {
		if c == card {
			return i
		}
	}
	return -1
}

// PendingColor is the sub-state entered after a wild or draw4 is played.
// Turn progression is suspended until Player chooses a color; NextIndex is
// the turn holder once the choice is made.
type PendingColor struct {
	Player    string
	NextIndex int
}

// Standing is one entry of the final ranking
type Standing struct {
	Name      string
	Score     int
	CardsLeft int
}

// Game is the aggregate root for a room's card game
type Game struct {
	RoomCode RoomCode
	State    GameState

	// Players in turn order
	Players []GamePlayer
	Deck    []Card

	CurrentCard        *Card
	CurrentPlayerIndex int
	Direction          Direction
	Pending            *PendingColor

	// Set once State is finished
	Winner  string
	Ranking []Standing

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]GamePlayer, len(g.Players))
	for i, p := range g.Players {
		p.Hand = append([]Card(nil), p.Hand...)
		c.Players[i] = p
	}
	c.Deck = append([]Card(nil), g.Deck...)
	if g.CurrentCard != nil {
		card := *g.CurrentCard
		c.CurrentCard = &card
	}
	if g.Pending != nil {
		pending := *g.Pending
		c.Pending = &pending
	}
	c.Ranking = append([]Standing(nil), g.Ranking...)
	return &c
}

// IsFinished returns true once a win condition has been met
func (g *Game) IsFinished() bool {
	return g.State == GameStateFinished
}

// PlayerIndex returns the seat of the named player, or -1
func (g *Game) PlayerIndex(name string) int {
	for i := range g.Players {
		if g.Players[i].Name == name {
			return i
		}
	}
	return -1
}

// GetPlayer returns the named player, or nil if not seated
func (g *Game) GetPlayer(name string) *GamePlayer {
	idx := g.PlayerIndex(name)
	if idx < 0 {
		return nil
	}
	return &g.Players[idx]
}

// CurrentPlayer returns the turn holder, or nil for an empty game
func (g *Game) CurrentPlayer() *GamePlayer {
	if len(g.Players) == 0 {
		return nil
	}
	return &g.Players[g.CurrentPlayerIndex]
}

// CardCount returns the number of cards across deck, hands and the table
func (g *Game) CardCount() int {
	count := len(g.Deck)
	for _, p := range g.Players {
		count += len(p.Hand)
	}
	if g.CurrentCard != nil {
		count++
	}
	return count
}
