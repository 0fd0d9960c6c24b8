package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crewfin/internal/services"
)

// RefreshWorker keeps the dashboard snapshot warm by polling the remote
// backend on a fixed interval. Change messages arriving over AMQP can
// force an immediate refresh through Notify, so the poll interval only
// bounds staleness when the message feed is down.
type RefreshWorker struct {
	dash     *services.DashboardService
	interval time.Duration
}

func NewRefreshWorker(dash *services.DashboardService, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{dash: dash, interval: interval}
}

// Run performs an initial refresh and then refreshes on every tick until
// the context is cancelled. A failed refresh is logged and retried on the
// next tick; the last good snapshot keeps serving in the meantime.
func (w *RefreshWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting dashboard refresh worker", "interval", w.interval)

	if _, err := w.dash.Refresh(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial dashboard refresh failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Dashboard refresh worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.dash.Refresh(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic dashboard refresh failed", "error", err)
			}
		}
	}
}

// Notify drops the cached snapshot and rebuilds it right away. Called
// when a transaction change message arrives.
func (w *RefreshWorker) Notify(ctx context.Context) error {
	w.dash.Invalidate()
	if _, err := w.dash.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh after change: %w", err)
	}
	return nil
}
