package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/api/request"
	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/services/bot"
	"github.com/mcoot/unogame/internal/services/room"
)

// RoomHandler handles room membership endpoints. Leaving or kicking can hand
// the turn of a running game to a bot, so bots act before those respond.
type RoomHandler struct {
	rooms      *room.Service
	botService *bot.Service
	logger     *slog.Logger
}

// NewRoomHandler creates a new room handler. botService may be nil.
func NewRoomHandler(rooms *room.Service, botService *bot.Service, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		rooms:      rooms,
		botService: botService,
		logger:     logger.With(slog.String("component", "room-handler")),
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.CreateRoom(r.Context(), req.Name, req.Player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(rm))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	rm, err := h.rooms.GetRoom(r.Context(), roomCode(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.PlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.JoinRoom(r.Context(), roomCode(r), req.Player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req request.PlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.LeaveRoom(r.Context(), roomCode(r), req.Player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	runBots(r.Context(), h.botService, h.logger, rm.Code)

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Kick handles POST /api/v1/rooms/{code}/kick
func (h *RoomHandler) Kick(w http.ResponseWriter, r *http.Request) {
	var req request.KickRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.KickPlayer(r.Context(), roomCode(r), req.Player, req.Target)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	runBots(r.Context(), h.botService, h.logger, rm.Code)

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// AddBot handles POST /api/v1/rooms/{code}/bots
func (h *RoomHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	var req request.AddBotRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.AddBot(r.Context(), roomCode(r), req.Player, req.Strategy)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(rm))
}
