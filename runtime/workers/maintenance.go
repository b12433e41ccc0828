package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// MaintenanceWorker periodically runs Badger's value-log garbage
// collection so the account store does not grow unbounded on disk.
type MaintenanceWorker struct {
	log      *slog.Logger
	db       *badger.DB
	interval time.Duration
}

func NewMaintenanceWorker(log *slog.Logger, db *badger.DB, interval time.Duration) *MaintenanceWorker {
	return &MaintenanceWorker{log: log, db: db, interval: interval}
}

func (w *MaintenanceWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to reclaim.
			if err := w.db.RunValueLogGC(0.5); err != nil && !stderrors.Is(err, badger.ErrNoRewrite) {
				w.log.Warn("Value-log GC failed", "error", err)
			}
		}
	}
}
