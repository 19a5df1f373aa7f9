package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/model"
)

// ServeSSE streams the room's notifications to player until the request
// ends or the hub shuts down
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, player string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, player)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write(formatSSEMessage("connected", `{"status":"connected","connection_id":"`+client.id+`"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-client.send:
			if !ok {
				return
			}
			msg, err := renderSSE(n, player)
			if err != nil {
				hub.logger.Error("failed to render notification",
					slog.String("type", string(n.Type)),
					slog.Any("error", err))
				continue
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// renderSSE renders n for player as an SSE event named after its type
func renderSSE(n model.Notification, player string) ([]byte, error) {
	envelope := response.NotificationFromModel(n, player)
	data, err := json.Marshal(envelope.Payload)
	if err != nil {
		return nil, err
	}
	return formatSSEMessage(envelope.Type, string(data)), nil
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
