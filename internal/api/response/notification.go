package response

import "github.com/mcoot/unogame/internal/model"

// Notification is the wire envelope for realtime notifications
type Notification struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// GameStarted lists the seated players in turn order
type GameStarted struct {
	Players []string `json:"players"`
}

// ChooseColor prompts a player for a wild color
type ChooseColor struct {
	Player string `json:"player"`
}

// GameOver is the terminal result of a finished game
type GameOver struct {
	Winner  string     `json:"winner"`
	Ranking []Standing `json:"ranking"`
}

// GameWon announces a win by attrition
type GameWon struct {
	Winner string `json:"winner"`
}

// Message is a free-form informational message
type Message struct {
	Message string `json:"message"`
}

// Error describes a rejected intent
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NotificationFromModel renders n for viewer. Game snapshots only reveal
// the viewer's own hand.
func NotificationFromModel(n model.Notification, viewer string) Notification {
	out := Notification{Type: string(n.Type)}

	switch p := n.Payload.(type) {
	case model.GameStartedPayload:
		out.Payload = GameStarted{Players: p.Players}
	case model.GameStatePayload:
		if p.Game != nil {
			out.Payload = GameFromModel(p.Game, viewer)
		}
	case model.ChooseColorPayload:
		out.Payload = ChooseColor{Player: p.Player}
	case model.GameOverPayload:
		out.Payload = GameOver{Winner: p.Winner, Ranking: StandingsFromModel(p.Ranking)}
	case model.GameWonPayload:
		out.Payload = GameWon{Winner: p.Winner}
	case model.MessagePayload:
		out.Payload = Message{Message: p.Message}
	case model.ErrorPayload:
		out.Payload = Error{Code: p.Code, Message: p.Message}
	case model.RoomUpdatedPayload:
		if p.Room != nil {
			out.Payload = RoomFromModel(p.Room)
		}
	}
	return out
}
