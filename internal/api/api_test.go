package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/unogame/internal/api"
	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/factory"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/testutil"
)

// testServer wraps the router over a test app with mocked randomness
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		RoomService: app.RoomService,
		Coordinator: app.Coordinator,
		BotService:  app.BotService,
		HubManager:  app.HubManager,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// createRoom creates a room hosted by host with the given code
func createRoom(t *testing.T, ts *testServer, code, host string) response.Room {
	t.Helper()

	ts.app.MockRandom.QueueString(code)
	rr := ts.request(http.MethodPost, "/api/v1/rooms", map[string]string{"name": "table", "player": host})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var room response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	return room
}

func joinRoom(t *testing.T, ts *testServer, code, player string) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", map[string]string{"player": player})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func decodeGame(t *testing.T, rr *httptest.ResponseRecorder) response.GameResponse {
	t.Helper()

	var resp response.GameResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateAndJoinRoom(t *testing.T) {
	ts := newTestServer(t)

	room := createRoom(t, ts, "ROOM01", "alice")
	assert.Equal(t, "ROOM01", room.Code)
	assert.Equal(t, "table", room.Name)
	require.Len(t, room.Members, 1)
	assert.Equal(t, "alice", room.Members[0].Name)
	assert.True(t, room.Members[0].IsHost)

	joinRoom(t, ts, "room01", "bob")

	rr := ts.request(http.MethodGet, "/api/v1/rooms/ROOM01", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got.Members, 2)
	assert.Equal(t, "bob", got.Members[1].Name)
	assert.False(t, got.Members[1].IsHost)
}

func TestJoinTwiceConflicts(t *testing.T) {
	ts := newTestServer(t)
	createRoom(t, ts, "ROOM01", "alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/join", map[string]string{"player": "alice"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeAlreadyInRoom, decodeError(t, rr).Code)
}

func TestMalformedBodyIsRejected(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestMissingPlayerIsRejected(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/rooms", map[string]string{"name": "table"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestUnknownRoom(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/NOPE00", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeRoomNotFound, decodeError(t, rr).Code)

	rr = ts.request(http.MethodGet, "/api/v1/rooms/NOPE00/game", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHostActions(t *testing.T) {
	ts := newTestServer(t)
	createRoom(t, ts, "ROOM01", "alice")
	joinRoom(t, ts, "ROOM01", "bob")

	// Only the host may kick
	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/kick", map[string]string{"player": "bob", "target": "alice"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotHost, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/kick", map[string]string{"player": "alice", "target": "alice"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeCannotKickSelf, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/kick", map[string]string{"player": "alice", "target": "bob"})
	require.Equal(t, http.StatusOK, rr.Code)

	var room response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	assert.Len(t, room.Members, 1)

	// Bots can be added by the host
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/bots", map[string]string{"player": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	require.Len(t, room.Members, 2)
	assert.True(t, room.Members[1].IsBot)
}

func TestStartGameNeedsTwoPlayers(t *testing.T) {
	ts := newTestServer(t)
	createRoom(t, ts, "ROOM01", "alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeWrongPlayerCount, decodeError(t, rr).Code)
}

func TestStartGameShowsOnlyViewerHand(t *testing.T) {
	ts := newTestServer(t)
	createRoom(t, ts, "ROOM01", "alice")
	joinRoom(t, ts, "ROOM01", "bob")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game?player=alice", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decodeGame(t, rr)
	game := resp.Game
	assert.Equal(t, "ROOM01", game.RoomCode)
	assert.Equal(t, "active", game.State)
	require.Len(t, game.Players, 2)
	require.NotNil(t, game.CurrentCard)
	assert.NotEmpty(t, game.CurrentPlayer)
	assert.Empty(t, resp.BotActions)

	assert.Equal(t, "alice", game.Players[0].Name)
	assert.Len(t, game.Players[0].Hand, 7)
	assert.Equal(t, 7, game.Players[0].CardCount)
	assert.Empty(t, game.Players[1].Hand)
	assert.Equal(t, 7, game.Players[1].CardCount)
	assert.Equal(t, 108-14-1, game.DeckCount)

	// A second start is rejected while the game runs
	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeGameInProgress, decodeError(t, rr).Code)

	// Anonymous viewers see counts only
	rr = ts.request(http.MethodGet, "/api/v1/rooms/ROOM01/game", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, p := range decodeGame(t, rr).Game.Players {
		assert.Empty(t, p.Hand)
	}
}

func TestIntentOutOfTurn(t *testing.T) {
	ts := newTestServer(t)
	createRoom(t, ts, "ROOM01", "alice")
	joinRoom(t, ts, "ROOM01", "bob")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	current := decodeGame(t, rr).Game.CurrentPlayer

	waiting := "bob"
	if current == "bob" {
		waiting = "alice"
	}

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/skip", map[string]string{"player": waiting})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotYourTurn, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/color", map[string]string{"player": current, "color": "purple"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidColor, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/color", map[string]string{"player": current, "color": "red"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoPendingColor, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/play", map[string]any{
		"player": current,
		"card":   map[string]string{"color": "red", "rank": "banana"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaveGameEndsTwoPlayerGame(t *testing.T) {
	ts := newTestServer(t)
	createRoom(t, ts, "ROOM01", "alice")
	joinRoom(t, ts, "ROOM01", "bob")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/leave", map[string]string{"player": "bob"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	game := decodeGame(t, rr).Game
	assert.Equal(t, "finished", game.State)
	assert.Equal(t, "alice", game.Winner)
	assert.Empty(t, game.CurrentPlayer)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game/draw", map[string]string{"player": "alice"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeGameFinished, decodeError(t, rr).Code)
}

func TestBotsTakeTheirTurns(t *testing.T) {
	ts := newTestServer(t)
	createRoom(t, ts, "ROOM01", "alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/bots", map[string]string{"player": "alice"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game?player=alice", nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	// Whatever the bots did, the turn is back with the human or the game is over
	game := decodeGame(t, rr).Game
	if game.State != "finished" {
		assert.Equal(t, "alice", game.CurrentPlayer)
	}
}

// seatBotGame starts a game for h1, h2 and a bot, then hands the turn to h2
func seatBotGame(t *testing.T, ts *testServer) {
	t.Helper()

	createRoom(t, ts, "ROOM01", "h1")
	joinRoom(t, ts, "ROOM01", "h2")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/bots", map[string]string{"player": "h1"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/game", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	ctx := context.Background()
	g, err := ts.app.Storage.GetGame(ctx, model.RoomCode("ROOM01"))
	require.NoError(t, err)
	require.Equal(t, "h2", g.Players[1].Name)
	g.CurrentPlayerIndex = 1
	require.NoError(t, ts.app.Storage.SaveGame(ctx, g))
}

func assertHumanCanAct(t *testing.T, ts *testServer) {
	t.Helper()

	rr := ts.request(http.MethodGet, "/api/v1/rooms/ROOM01/game?player=h1", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	game := decodeGame(t, rr).Game
	if game.State != "finished" {
		assert.Equal(t, "h1", game.CurrentPlayer)
		assert.Empty(t, game.PendingColor)
	}
}

func TestBotsPlayAfterRoomLeave(t *testing.T) {
	ts := newTestServer(t)
	seatBotGame(t, ts)

	// h2 held the turn; leaving the room passes it to the bot
	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/leave", map[string]string{"player": "h2"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assertHumanCanAct(t, ts)
}

func TestBotsPlayAfterKick(t *testing.T) {
	ts := newTestServer(t)
	seatBotGame(t, ts)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/ROOM01/kick", map[string]string{"player": "h1", "target": "h2"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assertHumanCanAct(t, ts)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/rooms", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))

	rr = ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
