package receipts

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often a Sweeper prunes expired receipts.
const DefaultSweepInterval = 10 * time.Minute

// Pruner drops expired receipts. MemoryStore implements it; redis expires keys itself.
type Pruner interface {
	Prune() int
}

// Sweeper periodically prunes a process-local receipt store so it stays bounded
// by the receipts marked within one TTL.
type Sweeper struct {
	interval time.Duration
	store    Pruner
}

func NewSweeper(store Pruner, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{interval: interval, store: store}
}

// Start prunes on every tick and once more on shutdown.
// Runs until context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Sweeper] Starting receipt sweeper", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-ctx.Done():
			slog.Info("[Sweeper] Stopping (context cancelled)")
			s.sweep()
			return nil
		}
	}
}

func (s *Sweeper) sweep() {
	if removed := s.store.Prune(); removed > 0 {
		slog.Debug("[Sweeper] Pruned expired receipts", "removed", removed)
	}
}
