package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/todos/internal/todo"
)

const maxBackoff = 30 * time.Second

// StartPoller launches a background goroutine that re-fetches the collection
// every interval through the engine, so the view shows the spinner and any
// failure message just as it does for a manual refresh. Consecutive failures
// stretch the wait with exponential backoff. A non-positive interval disables
// polling. It returns immediately.
func StartPoller(ctx context.Context, engine *todo.Engine, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			res := engine.Run(ctx, engine.FetchAllAction())
			if ctx.Err() != nil {
				return
			}
			if res.OK() {
				failures = 0
			} else {
				failures++
			}

			wait := calculateBackoff(failures, interval)
			if failures > 0 {
				logger.Debug("auto-refresh backing off",
					slog.Int("failures", failures),
					slog.Duration("wait", wait),
				)
			}
			timer.Reset(wait)
		}
	}()
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff. An interval already above the cap is used as is.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
