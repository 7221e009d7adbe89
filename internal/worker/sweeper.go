package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/astrovault/natalcore/internal/observability/metrics"
	"github.com/astrovault/natalcore/pkg/cache"
)

// Sweeper periodically evicts expired in-process cache entries. Expired
// entries are already invisible to readers; the sweep reclaims their
// memory so long-lived processes do not accumulate dead keys.
type Sweeper struct {
	caches   []*cache.Cache
	logger   *slog.Logger
	interval time.Duration
}

// NewSweeper creates a new cache sweeper over the given caches.
func NewSweeper(logger *slog.Logger, interval time.Duration, caches ...*cache.Cache) *Sweeper {
	return &Sweeper{caches: caches, logger: logger, interval: interval}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("cache sweeper started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cache sweeper stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Sweeper) sweep() {
	pruned := 0
	for _, c := range w.caches {
		pruned += c.PruneExpired()
	}
	if pruned > 0 {
		metrics.AddPrunedCacheEntries(pruned)
		w.logger.Debug("pruned expired cache entries", slog.Int("count", pruned))
	}
}
