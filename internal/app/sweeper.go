package app

import (
	"context"
	"log/slog"
	"time"
)

const defaultSweepInterval = time.Minute

// sweeper evicts expired cache entries.
type sweeper interface {
	Sweep(now time.Time) int
	Len() int
}

// StartSweeper launches a background goroutine that evicts expired cache
// entries at a fixed cadence. It returns immediately and stops with ctx.
func StartSweeper(ctx context.Context, s sweeper, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.Sweep(now); n > 0 {
					logger.Info("cache swept",
						slog.Int("evicted", n),
						slog.Int("remaining", s.Len()))
				}
			}
		}
	}()
}
