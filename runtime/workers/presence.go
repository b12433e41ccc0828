package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/relay"
)

// PresenceWorker logs a periodic snapshot of room occupancy and history
// size, the relay's only operational telemetry.
type PresenceWorker struct {
	log      *slog.Logger
	room     *relay.Room
	interval time.Duration
}

func NewPresenceWorker(log *slog.Logger, room *relay.Room, interval time.Duration) *PresenceWorker {
	return &PresenceWorker{log: log, room: room, interval: interval}
}

func (w *PresenceWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.log.Info("Presence",
				"online", w.room.ParticipantCount(),
				"history", w.room.HistoryLen())
		}
	}
}
