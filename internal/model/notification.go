package model

// NotificationType identifies the kind of outbound notification
type NotificationType string

const (
	// Game notifications
	NotifyGameStarted NotificationType = "game-started"
	NotifyGameState   NotificationType = "game-state"
	NotifyChooseColor NotificationType = "choose-color"
	NotifyGameOver    NotificationType = "game-over"
	NotifyGameWon     NotificationType = "game-won"
	NotifyGameMessage NotificationType = "game-message"
	NotifyGameError   NotificationType = "game-error"

	// Room notifications
	NotifyRoomUpdated NotificationType = "room-updated"
	NotifyRoomError   NotificationType = "room-error"
)

// Audience selects who receives a notification
type Audience string

const (
	AudienceRoom      Audience = "room"      // Everyone connected to the room
	AudienceRequester Audience = "requester" // Only the player who sent the intent
)

// Notification is an outbound message produced by a state transition
type Notification struct {
	Type     NotificationType
	Audience Audience
	RoomCode RoomCode
	Player   string // Requester, or the player the notification concerns
	Payload  any    // Type-specific data
}

// GameStartedPayload lists the seated players in turn order
type GameStartedPayload struct {
	Players []string
}

// GameStatePayload carries a full snapshot of the game
type GameStatePayload struct {
	Game *Game
}

// ChooseColorPayload prompts a player for a wild color
type ChooseColorPayload struct {
	Player string
}

// GameOverPayload is the terminal result of a finished game
type GameOverPayload struct {
	Winner  string
	Ranking []Standing
}

// GameWonPayload announces a win by attrition
type GameWonPayload struct {
	Winner string
}

// MessagePayload is a free-form informational message
type MessagePayload struct {
	Message string
}

// ErrorPayload describes a rejected intent
type ErrorPayload struct {
	Code    string
	Message string
}

// RoomUpdatedPayload carries the current room membership
type RoomUpdatedPayload struct {
	Room *Room
}

// RoomNotification builds a notification for the whole room
func RoomNotification(code RoomCode, t NotificationType, player string, payload any) Notification {
	return Notification{Type: t, Audience: AudienceRoom, RoomCode: code, Player: player, Payload: payload}
}

// RequesterNotification builds a notification for a single player
func RequesterNotification(code RoomCode, t NotificationType, player string, payload any) Notification {
	return Notification{Type: t, Audience: AudienceRequester, RoomCode: code, Player: player, Payload: payload}
}
