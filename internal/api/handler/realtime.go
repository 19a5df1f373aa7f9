package handler

import (
	"net/http"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/realtime"
	"github.com/mcoot/unogame/internal/services/room"
)

// RealtimeHandler serves the SSE and websocket transports
type RealtimeHandler struct {
	rooms *room.Service
	hubs  *realtime.HubManager
	ws    *realtime.WSHandler
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(rooms *room.Service, hubs *realtime.HubManager, ws *realtime.WSHandler) *RealtimeHandler {
	return &RealtimeHandler{rooms: rooms, hubs: hubs, ws: ws}
}

// Events handles GET /api/v1/rooms/{code}/events?player=
func (h *RealtimeHandler) Events(w http.ResponseWriter, r *http.Request) {
	code, player, ok := h.subscriber(w, r)
	if !ok {
		return
	}
	realtime.ServeSSE(w, r, h.hubs.GetOrCreateHub(code), player)
}

// WebSocket handles GET /api/v1/rooms/{code}/ws?player=
func (h *RealtimeHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	code, player, ok := h.subscriber(w, r)
	if !ok {
		return
	}
	h.ws.Serve(w, r, code, player)
}

// subscriber validates the connecting player against the room
func (h *RealtimeHandler) subscriber(w http.ResponseWriter, r *http.Request) (model.RoomCode, string, bool) {
	code := roomCode(r)
	player := r.URL.Query().Get("player")
	if err := model.ValidateIdentifier("player", player); err != nil {
		apierr.WriteError(w, err)
		return "", "", false
	}

	rm, err := h.rooms.GetRoom(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return "", "", false
	}
	if rm.GetMember(player) == nil {
		apierr.WriteError(w, model.ErrPlayerNotFound)
		return "", "", false
	}
	return code, player, true
}
