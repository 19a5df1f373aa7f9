package response

import (
	"time"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/bot"
)

// Card represents a card in API responses
type Card struct {
	Color string `json:"color"`
	Rank  string `json:"rank"`
}

// CardFromModel converts a model.Card
func CardFromModel(c model.Card) Card {
	return Card{Color: string(c.Color), Rank: string(c.Rank)}
}

// CardsFromModel converts a slice of model.Card
func CardsFromModel(cards []model.Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = CardFromModel(c)
	}
	return out
}

// RoomMember represents a room member
type RoomMember struct {
	Name        string    `json:"name"`
	IsHost      bool      `json:"is_host"`
	IsBot       bool      `json:"is_bot,omitempty"`
	BotStrategy string    `json:"bot_strategy,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Room represents a room and its members
type Room struct {
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Members   []RoomMember `json:"members"`
	CreatedAt time.Time    `json:"created_at"`
}

// RoomFromModel converts a model.Room
func RoomFromModel(r *model.Room) Room {
	members := make([]RoomMember, len(r.Members))
	for i, m := range r.Members {
		members[i] = RoomMember{
			Name:        m.Name,
			IsHost:      m.IsHost,
			IsBot:       m.IsBot,
			BotStrategy: m.BotStrategy,
			JoinedAt:    m.JoinedAt,
		}
	}
	return Room{
		Code:      string(r.Code),
		Name:      r.Name,
		Members:   members,
		CreatedAt: r.CreatedAt,
	}
}

// GamePlayer is a seat as seen by one viewer. Only the viewer's own hand
// is included; everyone else is shown as a card count.
type GamePlayer struct {
	Name      string `json:"name"`
	IsHost    bool   `json:"is_host"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Score     int    `json:"score"`
	CardCount int    `json:"card_count"`
	Hand      []Card `json:"hand,omitempty"`
}

// Standing is one entry of the final ranking
type Standing struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	CardsLeft int    `json:"cards_left"`
}

// Game is a snapshot of a game as seen by one viewer
type Game struct {
	RoomCode      string       `json:"room_code"`
	State         string       `json:"state"`
	Players       []GamePlayer `json:"players"`
	CurrentCard   *Card        `json:"current_card,omitempty"`
	CurrentPlayer string       `json:"current_player"`
	Direction     int          `json:"direction"`
	DeckCount     int          `json:"deck_count"`
	PendingColor  string       `json:"pending_color,omitempty"`
	Winner        string       `json:"winner,omitempty"`
	Ranking       []Standing   `json:"ranking,omitempty"`
}

// GameFromModel renders g for viewer. An empty viewer sees no hands.
func GameFromModel(g *model.Game, viewer string) Game {
	players := make([]GamePlayer, len(g.Players))
	for i, p := range g.Players {
		players[i] = GamePlayer{
			Name:      p.Name,
			IsHost:    p.IsHost,
			IsBot:     p.IsBot,
			Score:     p.Score,
			CardCount: len(p.Hand),
		}
		if viewer != "" && p.Name == viewer {
			players[i].Hand = CardsFromModel(p.Hand)
		}
	}

	out := Game{
		RoomCode:  string(g.RoomCode),
		State:     string(g.State),
		Players:   players,
		Direction: int(g.Direction),
		DeckCount: len(g.Deck),
		Winner:    g.Winner,
		Ranking:   StandingsFromModel(g.Ranking),
	}
	if g.CurrentCard != nil {
		c := CardFromModel(*g.CurrentCard)
		out.CurrentCard = &c
	}
	if current := g.CurrentPlayer(); current != nil && !g.IsFinished() {
		out.CurrentPlayer = current.Name
	}
	if g.Pending != nil {
		out.PendingColor = g.Pending.Player
	}
	return out
}

// StandingsFromModel converts a final ranking
func StandingsFromModel(ranking []model.Standing) []Standing {
	if len(ranking) == 0 {
		return nil
	}
	out := make([]Standing, len(ranking))
	for i, s := range ranking {
		out[i] = Standing{Name: s.Name, Score: s.Score, CardsLeft: s.CardsLeft}
	}
	return out
}

// BotAction represents a move a bot made after the request
type BotAction struct {
	Type   string `json:"type"`
	Player string `json:"player"`
	Card   *Card  `json:"card,omitempty"`
	Color  string `json:"color,omitempty"`
}

// BotActionsFromModel converts the actions returned by the bot service
func BotActionsFromModel(actions []bot.BotAction) []BotAction {
	if len(actions) == 0 {
		return nil
	}
	out := make([]BotAction, len(actions))
	for i, a := range actions {
		out[i] = BotAction{Type: string(a.Type), Player: a.Player, Color: string(a.Color)}
		if a.Type == bot.ActionPlay {
			c := CardFromModel(a.Card)
			out[i].Card = &c
		}
	}
	return out
}

// GameResponse is returned by every game endpoint
type GameResponse struct {
	Game       Game        `json:"game"`
	BotActions []BotAction `json:"bot_actions,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
