package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case GameResult:
		o.printGameResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Members   []RoomMember `json:"members"`
	CreatedAt time.Time    `json:"created_at"`
}

// RoomMember response type
type RoomMember struct {
	Name        string    `json:"name"`
	IsHost      bool      `json:"is_host"`
	IsBot       bool      `json:"is_bot,omitempty"`
	BotStrategy string    `json:"bot_strategy,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Card response type
type Card struct {
	Color string `json:"color"`
	Rank  string `json:"rank"`
}

func (c Card) String() string {
	if c.Color == "black" {
		return c.Rank
	}
	return c.Color + " " + c.Rank
}

// GamePlayer response type
type GamePlayer struct {
	Name      string `json:"name"`
	IsHost    bool   `json:"is_host"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Score     int    `json:"score"`
	CardCount int    `json:"card_count"`
	Hand      []Card `json:"hand,omitempty"`
}

// Standing response type
type Standing struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	CardsLeft int    `json:"cards_left"`
}

// Game response type
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

// BotAction response type
type BotAction struct {
	Type   string `json:"type"`
	Player string `json:"player"`
	Card   *Card  `json:"card,omitempty"`
	Color  string `json:"color,omitempty"`
}

// GameResult is returned by every game command
type GameResult struct {
	Game       Game        `json:"game"`
	BotActions []BotAction `json:"bot_actions,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status    string `json:"status"`
	Server    string `json:"server,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	if r.Name != "" {
		fmt.Printf("Name: %s\n", r.Name)
	}
	fmt.Printf("Members (%d):\n", len(r.Members))
	for _, m := range r.Members {
		tags := ""
		if m.IsHost {
			tags += " [host]"
		}
		if m.IsBot {
			tags += fmt.Sprintf(" [bot: %s]", m.BotStrategy)
		}
		fmt.Printf("  - %s%s\n", m.Name, tags)
	}
}

func (o *Output) printGameResult(res GameResult) {
	for _, a := range res.BotActions {
		switch {
		case a.Card != nil:
			fmt.Printf("%s: %s %s\n", a.Player, a.Type, a.Card)
		case a.Color != "":
			fmt.Printf("%s: %s %s\n", a.Player, a.Type, a.Color)
		default:
			fmt.Printf("%s: %s\n", a.Player, a.Type)
		}
	}
	if len(res.BotActions) > 0 {
		fmt.Println()
	}

	g := res.Game
	fmt.Printf("Game: %s\n", g.RoomCode)
	fmt.Printf("State: %s\n", g.State)
	if g.CurrentCard != nil {
		fmt.Printf("Current Card: %s\n", g.CurrentCard)
	}
	if g.CurrentPlayer != "" {
		direction := "clockwise"
		if g.Direction < 0 {
			direction = "counter-clockwise"
		}
		fmt.Printf("Turn: %s (%s)\n", g.CurrentPlayer, direction)
	}
	if g.PendingColor != "" {
		fmt.Printf("Waiting for %s to choose a color\n", g.PendingColor)
	}
	fmt.Printf("Deck: %d cards\n", g.DeckCount)

	fmt.Println("\nPlayers:")
	var hand []Card
	for _, p := range g.Players {
		tags := ""
		if p.IsHost {
			tags += " [host]"
		}
		if p.IsBot {
			tags += " [bot]"
		}
		fmt.Printf("  - %s%s: %d cards, %d points\n", p.Name, tags, p.CardCount, p.Score)
		if len(p.Hand) > 0 {
			hand = p.Hand
		}
	}

	if len(hand) > 0 {
		cards := make([]string, len(hand))
		for i, c := range hand {
			cards[i] = c.String()
		}
		fmt.Printf("\nYour Hand: %s\n", strings.Join(cards, ", "))
	}

	if g.Winner != "" {
		fmt.Printf("\nWinner: %s\n", g.Winner)
	}
	if len(g.Ranking) > 0 {
		fmt.Println("\nFinal Ranking:")
		for i, s := range g.Ranking {
			fmt.Printf("  %d. %s: %d points, %d cards left\n", i+1, s.Name, s.Score, s.CardsLeft)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Server: %s\n", h.Server)
	fmt.Printf("Status: %s (%dms)\n", h.Status, h.LatencyMS)
}
