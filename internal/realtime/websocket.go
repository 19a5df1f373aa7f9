package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/model"
)

// WSHandler serves the websocket transport: intents in, notifications out
type WSHandler struct {
	hubs       *HubManager
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewWSHandler creates a new WSHandler. An empty allowedOrigins list, or
// one containing "*", accepts any origin.
func NewWSHandler(hubs *HubManager, dispatcher *Dispatcher, allowedOrigins []string, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hubs:       hubs,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger.With(slog.String("component", "websocket")),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Serve upgrades the request and runs the connection for player in the
// room until either side closes it
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request, code model.RoomCode, player string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	hub := h.hubs.GetOrCreateHub(code)
	client := NewClient(hub, player)
	hub.Register(client)

	// Replies go to this connection only, not every connection of the player
	replies := make(chan model.Notification, sendBufferSize)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(conn, client, replies)
	}()

	h.readPump(r.Context(), conn, client, replies)

	hub.Unregister(client)
	close(replies)
	<-writerDone
}

func (h *WSHandler) readPump(ctx context.Context, conn *websocket.Conn, client *Client, replies chan<- model.Notification) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	code := client.hub.roomCode
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed",
					slog.String("connection_id", client.id),
					slog.Any("error", err))
			}
			return
		}

		var intent Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			intent = Intent{Type: IntentType("malformed")}
		}

		for _, n := range h.dispatcher.Dispatch(ctx, code, client.player, intent) {
			select {
			case replies <- n:
			default:
				h.logger.Warn("reply dropped - buffer full", slog.String("connection_id", client.id))
			}
		}
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, client *Client, replies <-chan model.Notification) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	send := client.send
	for {
		var (
			n  model.Notification
			ok bool
		)
		select {
		case n, ok = <-send:
			if !ok {
				// Hub closed; keep serving replies until the reader stops
				send = nil
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				continue
			}
		case n, ok = <-replies:
			if !ok {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(response.NotificationFromModel(n, client.player)); err != nil {
			return
		}
	}
}
