package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/unogame/internal/api"
	"github.com/mcoot/unogame/internal/factory"
	"github.com/mcoot/unogame/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "uno-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/uno")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) command(player string, args ...string) *exec.Cmd {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)
	if player != "" {
		fullArgs = append(fullArgs, "--player", player)
	}

	cmd := exec.Command(r.binaryPath, fullArgs...)
	// Keep the caller's UNO_* variables out of the test
	cmd.Env = []string{"PATH=" + os.Getenv("PATH"), "HOME=" + os.Getenv("HOME")}
	return cmd
}

// run executes a command as player (empty for none)
func (r *cliRunner) run(player string, args ...string) (string, error) {
	output, err := r.command(player, args...).CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := testutil.NopLogger()
	app, err := factory.New(context.Background(), factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		RoomService: app.RoomService,
		Coordinator: app.Coordinator,
		BotService:  app.BotService,
		HubManager:  app.HubManager,
	})

	// Port 0 picks a free port
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = "127.0.0.1"
	serverConfig.Port = 0
	server := api.NewServer(router, serverConfig, logger)
	require.NoError(t, server.Listen())

	// Start server
	go func() {
		if err := server.Start(); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			// Close hubs first so streaming requests end
			_ = app.Close()
			_ = server.Shutdown(context.Background())
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type roomResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Members []struct {
		Name   string `json:"name"`
		IsHost bool   `json:"is_host"`
		IsBot  bool   `json:"is_bot"`
	} `json:"members"`
}

type card struct {
	Color string `json:"color"`
	Rank  string `json:"rank"`
}

type gameResponse struct {
	Game struct {
		RoomCode string `json:"room_code"`
		State    string `json:"state"`
		Players  []struct {
			Name      string `json:"name"`
			CardCount int    `json:"card_count"`
			Hand      []card `json:"hand"`
		} `json:"players"`
		CurrentCard   *card  `json:"current_card"`
		CurrentPlayer string `json:"current_player"`
		PendingColor  string `json:"pending_color"`
		Winner        string `json:"winner"`
	} `json:"game"`
	BotActions []struct {
		Type   string `json:"type"`
		Player string `json:"player"`
	} `json:"bot_actions"`
}

// hand returns the cards of the named player, if visible
func (g gameResponse) hand(name string) []card {
	for _, p := range g.Game.Players {
		if p.Name == name {
			return p.Hand
		}
	}
	return nil
}

type healthResponse struct {
	Status string `json:"status"`
}

type eventLine struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// playable picks the first card in hand that may go on current
func playable(hand []card, current *card) *card {
	for _, c := range hand {
		if c.Rank == "wild" || c.Rank == "draw4" {
			return &c
		}
		if current != nil && (c.Color == current.Color || c.Rank == current.Rank) {
			return &c
		}
	}
	return nil
}

func parseGame(t *testing.T, output string) gameResponse {
	t.Helper()

	var resp gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp), "output: %s", output)
	return resp
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("", "health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_RoomCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create room
	output, err := cli.run("alice", "room", "create", "--name", "friday")
	require.NoError(t, err, "output: %s", output)

	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Len(t, room.Code, 6)
	assert.Equal(t, "friday", room.Name)
	require.Len(t, room.Members, 1)
	assert.True(t, room.Members[0].IsHost)

	// Join using a lowercase code
	output, err = cli.run("bob", "room", "join", strings.ToLower(room.Code))
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Len(t, room.Members, 2)

	// Add a bot
	output, err = cli.run("alice", "room", "add-bot", room.Code, "--strategy", "greedy")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	require.Len(t, room.Members, 3)
	assert.True(t, room.Members[2].IsBot)

	// Kick bob
	output, err = cli.run("alice", "room", "kick", room.Code, "bob")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Len(t, room.Members, 2)

	// Get room
	output, err = cli.run("", "room", "get", room.Code)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "alice", room.Members[0].Name)

	// The last human leaving deletes the room
	output, err = cli.run("alice", "room", "leave", room.Code)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("", "room", "get", room.Code)
	assert.Error(t, err)
	assert.Contains(t, output, "ROOM_NOT_FOUND")
}

func TestCLI_GameAgainstBot(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("alice", "room", "create")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))

	output, err = cli.run("alice", "room", "add-bot", room.Code)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("alice", "game", "start", room.Code)
	require.NoError(t, err, "output: %s", output)
	game := parseGame(t, output)
	assert.Equal(t, "active", game.Game.State)
	assert.Len(t, game.hand("alice"), 7)

	// Play a bounded number of turns; the bot answers each one
	for turn := 0; turn < 30 && game.Game.State == "active"; turn++ {
		require.Equal(t, "alice", game.Game.CurrentPlayer)

		if c := playable(game.hand("alice"), game.Game.CurrentCard); c != nil {
			output, err = cli.run("alice", "game", "play", room.Code, c.Color, c.Rank)
			require.NoError(t, err, "output: %s", output)
			game = parseGame(t, output)

			if game.Game.PendingColor == "alice" {
				output, err = cli.run("alice", "game", "color", room.Code, "red")
				require.NoError(t, err, "output: %s", output)
				game = parseGame(t, output)
			}
			continue
		}

		output, err = cli.run("alice", "game", "draw", room.Code)
		require.NoError(t, err, "output: %s", output)
		game = parseGame(t, output)

		if c := playable(game.hand("alice"), game.Game.CurrentCard); c != nil {
			output, err = cli.run("alice", "game", "play", room.Code, c.Color, c.Rank)
			require.NoError(t, err, "output: %s", output)
			game = parseGame(t, output)
			if game.Game.PendingColor == "alice" {
				output, err = cli.run("alice", "game", "color", room.Code, "blue")
				require.NoError(t, err, "output: %s", output)
				game = parseGame(t, output)
			}
			continue
		}

		output, err = cli.run("alice", "game", "skip", room.Code)
		require.NoError(t, err, "output: %s", output)
		game = parseGame(t, output)
	}

	if game.Game.State == "finished" {
		assert.NotEmpty(t, game.Game.Winner)
	}
}

func TestCLI_LeaveGame(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("alice", "room", "create")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))

	_, err = cli.run("bob", "room", "join", room.Code)
	require.NoError(t, err)

	output, err = cli.run("", "game", "start", room.Code)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("bob", "game", "leave", room.Code)
	require.NoError(t, err, "output: %s", output)
	game := parseGame(t, output)
	assert.Equal(t, "finished", game.Game.State)
	assert.Equal(t, "alice", game.Game.Winner)

	// bob is still a room member
	output, err = cli.run("", "room", "get", room.Code)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Len(t, room.Members, 2)

	// A new game can be started after the last one finished
	output, err = cli.run("", "game", "start", room.Code)
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "active", parseGame(t, output).Game.State)
}

func TestCLI_Events(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("alice", "room", "create")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))

	cmd := cli.command("alice", "events", room.Code, "--json")
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	events := make(chan eventLine, 16)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			var ev eventLine
			if json.Unmarshal(scanner.Bytes(), &ev) == nil {
				events <- ev
			}
		}
	}()

	next := func() eventLine {
		t.Helper()
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream ended")
			return ev
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for event")
			return eventLine{}
		}
	}

	assert.Equal(t, "connected", next().Event)

	_, err = cli.run("bob", "room", "join", room.Code)
	require.NoError(t, err)
	assert.Equal(t, "room-updated", next().Event)

	_, err = cli.run("", "game", "start", room.Code)
	require.NoError(t, err)
	assert.Equal(t, "game-started", next().Event)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Commands that act as a player need one
	output, err := cli.run("", "room", "create")
	assert.Error(t, err)
	assert.Contains(t, output, "player name required")

	// Get non-existent room
	output, err = cli.run("", "room", "get", "NOPE00")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Start with a single member
	output, err = cli.run("alice", "room", "create")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))

	output, err = cli.run("", "game", "start", room.Code)
	assert.Error(t, err)
	assert.Contains(t, output, "WRONG_PLAYER_COUNT")
}
