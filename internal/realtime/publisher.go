package realtime

import (
	"context"
	"log/slog"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/game"
)

// Publisher delivers notifications to the hubs of their rooms. Rooms
// without connected clients are skipped.
type Publisher struct {
	hubs   *HubManager
	logger *slog.Logger
}

var _ game.Notifier = (*Publisher)(nil)

// NewPublisher creates a new Publisher
func NewPublisher(hubs *HubManager, logger *slog.Logger) *Publisher {
	return &Publisher{
		hubs:   hubs,
		logger: logger.With(slog.String("component", "realtime-publisher")),
	}
}

// Publish implements game.Notifier
func (p *Publisher) Publish(ctx context.Context, notifications []model.Notification) {
	for _, n := range notifications {
		hub := p.hubs.GetHub(n.RoomCode)
		if hub == nil {
			continue
		}
		hub.Publish(n)
		p.logger.DebugContext(ctx, "notification published",
			slog.String("room_code", string(n.RoomCode)),
			slog.String("type", string(n.Type)),
			slog.String("audience", string(n.Audience)))
	}
}
