package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hooksmith/usersync/internal/core/storage"
)

type accountKey struct {
	userID         int64
	provider       string
	providerUserID string
}

// Store is an in-memory implementation of storage.Store.
// It enforces the same uniqueness rules as the PostgreSQL schema and is
// useful for testing and development.
type Store struct {
	mu sync.RWMutex

	nextUserID     int64
	nextAccountID  int64
	nextActivityID int64

	users      map[string]*storage.UserRecord
	accounts   map[int64]storage.LinkedAccount
	accountIDs map[accountKey]int64
	activities []storage.ActivityEntry
}

var _ storage.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*storage.UserRecord),
		accounts:   make(map[int64]storage.LinkedAccount),
		accountIDs: make(map[accountKey]int64),
	}
}

func (s *Store) InsertUser(ctx context.Context, user *storage.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ExternalID]; exists {
		return storage.ErrDuplicate
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	s.nextUserID++
	user.ID = s.nextUserID

	// Store a copy to prevent external modification
	copy := *user
	s.users[user.ExternalID] = &copy
	return nil
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*storage.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[externalID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *u
	return &copy, nil
}

func (s *Store) UpdateUser(ctx context.Context, externalID string, fields storage.UserFields) (*storage.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[externalID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	u.Email = fields.Email
	u.FirstName = fields.FirstName
	u.LastName = fields.LastName
	u.Username = fields.Username
	u.UpdatedAt = fields.UpdatedAt

	copy := *u
	return &copy, nil
}

func (s *Store) ListLinkedAccounts(ctx context.Context, userID int64) ([]storage.LinkedAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.LinkedAccount
	// IDs are allocated in increasing order, so scanning 1..next keeps id order.
	for id := int64(1); id <= s.nextAccountID; id++ {
		acc, ok := s.accounts[id]
		if ok && acc.UserID == userID {
			result = append(result, acc)
		}
	}
	return result, nil
}

func (s *Store) InsertLinkedAccounts(ctx context.Context, accounts []storage.LinkedAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range accounts {
		key := accountKey{userID: acc.UserID, provider: acc.Provider, providerUserID: acc.ProviderUserID}
		if _, exists := s.accountIDs[key]; exists {
			continue
		}
		s.nextAccountID++
		acc.ID = s.nextAccountID
		s.accounts[acc.ID] = acc
		s.accountIDs[key] = acc.ID
	}
	return nil
}

func (s *Store) DeleteLinkedAccounts(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		acc, ok := s.accounts[id]
		if !ok {
			continue
		}
		delete(s.accounts, id)
		delete(s.accountIDs, accountKey{userID: acc.UserID, provider: acc.Provider, providerUserID: acc.ProviderUserID})
	}
	return nil
}

func (s *Store) AppendActivity(ctx context.Context, userID int64, activityType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextActivityID++
	s.activities = append(s.activities, storage.ActivityEntry{
		ID:           s.nextActivityID,
		UserID:       userID,
		ActivityType: activityType,
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}

// Activities returns a snapshot of the activity log for userID, oldest first.
func (s *Store) Activities(userID int64) []storage.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.ActivityEntry
	for _, a := range s.activities {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	return result
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Ping always succeeds; it lets the memory store back the health check.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}
