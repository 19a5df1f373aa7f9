package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/api/request"
	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/bot"
	"github.com/mcoot/unogame/internal/services/game"
)

// GameHandler handles game intent endpoints. Every successful intent lets
// the room's bots take their turns before responding.
type GameHandler struct {
	coordinator *game.Coordinator
	botService  *bot.Service
	logger      *slog.Logger
}

// NewGameHandler creates a new game handler. botService may be nil.
func NewGameHandler(coordinator *game.Coordinator, botService *bot.Service, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		coordinator: coordinator,
		botService:  botService,
		logger:      logger.With(slog.String("component", "game-handler")),
	}
}

// Start handles POST /api/v1/rooms/{code}/game
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := roomCode(r)

	g, err := h.coordinator.StartGame(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.respond(w, r, http.StatusCreated, g, r.URL.Query().Get("player"))
}

// Get handles GET /api/v1/rooms/{code}/game?player=
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.coordinator.GetGame(r.Context(), roomCode(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameResponse{
		Game: response.GameFromModel(g, r.URL.Query().Get("player")),
	})
}

// Draw handles POST /api/v1/rooms/{code}/game/draw
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
	h.playerIntent(w, r, h.coordinator.DrawCard)
}

// Skip handles POST /api/v1/rooms/{code}/game/skip
func (h *GameHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.playerIntent(w, r, h.coordinator.SkipTurn)
}

// Leave handles POST /api/v1/rooms/{code}/game/leave
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.playerIntent(w, r, h.coordinator.LeaveGame)
}

// Play handles POST /api/v1/rooms/{code}/game/play
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req request.PlayCardRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	card, err := req.Card.ToModel()
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.coordinator.PlayCard(r.Context(), roomCode(r), req.Player, card)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, g, req.Player)
}

// ChooseColor handles POST /api/v1/rooms/{code}/game/color
func (h *GameHandler) ChooseColor(w http.ResponseWriter, r *http.Request) {
	var req request.ChooseColorRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	color, err := model.ParseColor(req.Color)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.coordinator.ChooseColor(r.Context(), roomCode(r), req.Player, color)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, g, req.Player)
}

type intentFunc func(ctx context.Context, code model.RoomCode, player string) (*model.Game, error)

func (h *GameHandler) playerIntent(w http.ResponseWriter, r *http.Request, intent intentFunc) {
	var req request.PlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := intent(r.Context(), roomCode(r), req.Player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, g, req.Player)
}

// respond lets bots act, then writes the game as seen by viewer
func (h *GameHandler) respond(w http.ResponseWriter, r *http.Request, status int, g *model.Game, viewer string) {
	actions := h.processBotActions(r.Context(), g.RoomCode)
	if len(actions) > 0 {
		if latest, err := h.coordinator.GetGame(r.Context(), g.RoomCode); err == nil {
			g = latest
		}
	}

	response.JSON(w, status, response.GameResponse{
		Game:       response.GameFromModel(g, viewer),
		BotActions: response.BotActionsFromModel(actions),
	})
}

// processBotActions runs bot turns. Failures are logged; the human's
// intent has already been applied.
func (h *GameHandler) processBotActions(ctx context.Context, code model.RoomCode) []bot.BotAction {
	return runBots(ctx, h.botService, h.logger, code)
}

func runBots(ctx context.Context, bots *bot.Service, logger *slog.Logger, code model.RoomCode) []bot.BotAction {
	if bots == nil {
		return nil
	}

	actions, err := bots.ProcessBotActions(ctx, code)
	if err != nil {
		logger.ErrorContext(ctx, "bot actions failed",
			slog.String("room_code", string(code)),
			slog.Any("error", err))
	}
	return actions
}
