// Package receipts remembers which deliveries (by svix-id) were already processed so
// redelivered webhooks are acknowledged without running their handler again.
package receipts

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL bounds how long a receipt is kept. Svix stops retrying well within it.
const DefaultTTL = 72 * time.Hour

// Store records processed delivery ids.
type Store interface {
	// Seen reports whether deliveryID was marked and has not expired.
	Seen(ctx context.Context, deliveryID string) (bool, error)

	// Mark records deliveryID as processed.
	Mark(ctx context.Context, deliveryID string) error
}

// MemoryStore is a process-local Store. Receipts are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	receipts map[string]time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		receipts: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Seen(ctx context.Context, deliveryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.receipts[deliveryID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.receipts, deliveryID)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Mark(ctx context.Context, deliveryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.receipts[deliveryID] = s.now().Add(s.ttl)
	return nil
}

// Prune drops expired receipts and returns how many were removed.
func (s *MemoryStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, expiresAt := range s.receipts {
		if !now.Before(expiresAt) {
			delete(s.receipts, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of receipts held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.receipts)
}
