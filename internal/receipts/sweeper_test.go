package receipts

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) Prune() int {
	p.calls.Add(1)
	return 0
}

func TestSweeper_PrunesOnTickAndShutdown(t *testing.T) {
	p := &countingPruner{}
	sweeper := NewSweeper(p, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	require.GreaterOrEqual(t, p.calls.Load(), int32(3))
}

func TestSweeper_DropsExpiredMemoryReceipts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Mark(ctx, "msg_1"))

	now = now.Add(time.Hour)
	NewSweeper(s, 0).sweep()
	require.Equal(t, 0, s.Len())
}

func TestNewSweeper_DefaultInterval(t *testing.T) {
	require.Equal(t, DefaultSweepInterval, NewSweeper(&countingPruner{}, 0).interval)
}
