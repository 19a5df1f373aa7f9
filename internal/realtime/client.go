package realtime

import (
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/mcoot/unogame/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Time allowed to read the next pong from a websocket peer
	pongWait = 60 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256

	// Largest intent a websocket peer may send
	maxMessageSize = 4096
)

// Client is one connection (SSE stream or websocket) of a player to a room
type Client struct {
	id          string
	hub         *Hub
	player      string
	send        chan model.Notification
	connectedAt time.Time
}

// NewClient creates a new client for player. The client is not registered.
func NewClient(hub *Hub, player string) *Client {
	return &Client{
		id:          uuid.NewV4().String(),
		hub:         hub,
		player:      player,
		send:        make(chan model.Notification, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the connection id
func (c *Client) ID() string {
	return c.id
}

// Player returns the player the connection belongs to
func (c *Client) Player() string {
	return c.player
}

// wants reports whether the notification is addressed to this client
func (c *Client) wants(n model.Notification) bool {
	return n.Audience != model.AudienceRequester || n.Player == c.player
}
