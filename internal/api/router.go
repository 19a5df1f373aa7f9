package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mcoot/unogame/internal/api/handler"
	"github.com/mcoot/unogame/internal/api/middleware"
	"github.com/mcoot/unogame/internal/api/response"
	sharedmw "github.com/mcoot/unogame/internal/middleware"
	"github.com/mcoot/unogame/internal/realtime"
	"github.com/mcoot/unogame/internal/services/bot"
	"github.com/mcoot/unogame/internal/services/game"
	"github.com/mcoot/unogame/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	RoomService *room.Service
	Coordinator *game.Coordinator
	BotService  *bot.Service // Optional
	HubManager  *realtime.HubManager

	// AllowedOrigins for CORS and websocket upgrades. Empty allows any.
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Bots only run when the service is wired; a nil *bot.Service must not
	// become a non-nil interface
	var bots realtime.BotRunner
	if cfg.BotService != nil {
		bots = cfg.BotService
	}
	dispatcher := realtime.NewDispatcher(cfg.Coordinator, bots, cfg.Logger)
	wsHandler := realtime.NewWSHandler(cfg.HubManager, dispatcher, cfg.AllowedOrigins, cfg.Logger)

	roomHandler := handler.NewRoomHandler(cfg.RoomService, cfg.BotService, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.Coordinator, cfg.BotService, cfg.Logger)
	realtimeHandler := handler.NewRealtimeHandler(cfg.RoomService, cfg.HubManager, wsHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(sharedmw.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Room routes
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/kick", roomHandler.Kick).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/bots", roomHandler.AddBot).Methods(http.MethodPost)

	// Game routes
	api.HandleFunc("/rooms/{code}/game", gameHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/game", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/game/draw", gameHandler.Draw).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/game/play", gameHandler.Play).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/game/color", gameHandler.ChooseColor).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/game/skip", gameHandler.Skip).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/game/leave", gameHandler.Leave).Methods(http.MethodPost)

	// Realtime routes
	api.HandleFunc("/rooms/{code}/events", realtimeHandler.Events).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/ws", realtimeHandler.WebSocket).Methods(http.MethodGet)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", sharedmw.RequestIDHeader}),
		handlers.ExposedHeaders([]string{sharedmw.RequestIDHeader, "Retry-After"}),
	)(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
