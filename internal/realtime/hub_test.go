package realtime

import (
	"testing"
	"time"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "game-state",
			data:      `{"state":"active"}`,
			expected:  "event: game-state\ndata: {\"state\":\"active\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "game-message",
			data:      "line1\nline2",
			expected:  "event: game-message\ndata: line1\ndata: line2\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "single line", input: "hello", expected: []string{"hello"}},
		{name: "two lines", input: "line1\nline2", expected: []string{"line1", "line2"}},
		{name: "trailing newline", input: "line1\n", expected: []string{"line1"}},
		{name: "empty string", input: "", expected: []string{""}},
		{name: "crlf line endings", input: "line1\r\nline2\r\n", expected: []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitLines(%q) returned %d lines, want %d", tt.input, len(result), len(tt.expected))
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q", tt.input, i, line, tt.expected[i])
				}
			}
		})
	}
}

func newTestHub(code model.RoomCode) *Hub {
	hub := NewHub(code, testutil.NopLogger())
	go hub.Run()
	return hub
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func receive(t *testing.T, client *Client) (model.Notification, bool) {
	t.Helper()
	select {
	case n := <-client.send:
		return n, true
	case <-time.After(100 * time.Millisecond):
		return model.Notification{}, false
	}
}

func TestHub_RoomNotificationReachesEveryClient(t *testing.T) {
	hub := newTestHub("ROOM01")
	defer hub.Close()

	clients := []*Client{NewClient(hub, "alice"), NewClient(hub, "bob"), NewClient(hub, "alice")}
	for _, c := range clients {
		hub.Register(c)
	}
	waitForClients(t, hub, 3)

	hub.Publish(model.RoomNotification("ROOM01", model.NotifyGameState, "alice", model.GameStatePayload{}))

	for i, c := range clients {
		n, ok := receive(t, c)
		if !ok {
			t.Errorf("client %d did not receive notification", i)
			continue
		}
		if n.Type != model.NotifyGameState {
			t.Errorf("client %d received %q, want %q", i, n.Type, model.NotifyGameState)
		}
	}
}

func TestHub_RequesterNotificationOnlyReachesThatPlayer(t *testing.T) {
	hub := newTestHub("ROOM01")
	defer hub.Close()

	alice := NewClient(hub, "alice")
	bob := NewClient(hub, "bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.Publish(model.RequesterNotification("ROOM01", model.NotifyGameMessage, "alice", model.MessagePayload{Message: "you drew red:5"}))

	if _, ok := receive(t, alice); !ok {
		t.Error("alice did not receive her notification")
	}
	if n, ok := receive(t, bob); ok {
		t.Errorf("bob received %q addressed to alice", n.Type)
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub("ROOM01")
	defer hub.Close()

	client := NewClient(hub, "alice")
	hub.Register(client)
	hub.Unregister(client)

	hub.Register(NewClient(hub, "bob"))
	waitForClients(t, hub, 1)
	if _, ok := <-client.send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := newTestHub("ROOM01")
	client := NewClient(hub, "alice")
	hub.Register(client)

	hub.Close()
	hub.Close()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client was not disconnected")
	}

	// Registering on a closed hub does not block
	late := NewClient(hub, "bob")
	hub.Register(late)
	if _, ok := <-late.send; ok {
		t.Error("late client send channel should be closed")
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	hub1 := manager.GetOrCreateHub("ABC123")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}
	if hub2 := manager.GetOrCreateHub("ABC123"); hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same code")
	}
	if hub3 := manager.GetOrCreateHub("XYZ789"); hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different code")
	}
	if manager.GetHub("NOTEXIST") != nil {
		t.Error("GetHub returned non-nil for non-existent hub")
	}
}

func TestHubManager_RemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("ABC123")
	manager.RemoveHub("ABC123")

	if manager.GetHub("ABC123") != nil {
		t.Error("Hub still exists after RemoveHub")
	}

	// Removing non-existent hub should not panic
	manager.RemoveHub("NOTEXIST")
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	manager.GetOrCreateHub("EMPTY0")
	active := manager.GetOrCreateHub("ACTIVE")
	active.Register(NewClient(active, "alice"))
	waitForClients(t, active, 1)

	if removed := manager.CleanupEmptyHubs(); removed != 1 {
		t.Errorf("CleanupEmptyHubs() = %d, want 1", removed)
	}
	if manager.GetHub("EMPTY0") != nil {
		t.Error("Empty hub still exists after cleanup")
	}
	if manager.GetHub("ACTIVE") == nil {
		t.Error("Active hub was removed during cleanup")
	}
}
