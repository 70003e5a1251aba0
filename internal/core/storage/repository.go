package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDuplicate is returned when an insert violates a uniqueness constraint
	// (a user with the same external_id already exists).
	ErrDuplicate = errors.New("record already exists")

	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("record not found")
)

// Activity types appended to the activity log.
const (
	ActivitySignup  = "signup"
	ActivityUpdate  = "update"
	ActivityDelete  = "delete"
	ActivitySession = "session"
)

// UserRecord is the canonical user row, keyed by ExternalID.
type UserRecord struct {
	ID             int64
	ExternalID     string
	Email          string
	FirstName      string
	LastName       string
	Username       string
	UniqueGlobalID uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserFields are the mutable attributes written by an update.
type UserFields struct {
	Email     string
	FirstName string
	LastName  string
	Username  string
	UpdatedAt time.Time
}

// LinkedAccount is a stored external account row owned by a user.
type LinkedAccount struct {
	ID             int64
	UserID         int64
	Provider       string
	ProviderUserID string
	Email          string
	ProfileURL     string
}

// ActivityEntry is one append-only activity log row.
type ActivityEntry struct {
	ID           int64
	UserID       int64
	ActivityType string
	CreatedAt    time.Time
}

// UserStore persists canonical user records.
type UserStore interface {
	// InsertUser stores a new user and populates ID, CreatedAt and UpdatedAt.
	// Returns ErrDuplicate if a user with the same ExternalID already exists.
	InsertUser(ctx context.Context, user *UserRecord) error

	// GetUserByExternalID returns ErrNotFound if no user has the given external id.
	GetUserByExternalID(ctx context.Context, externalID string) (*UserRecord, error)

	// UpdateUser overwrites the mutable fields of the user with the given external id.
	// Returns ErrNotFound if the user does not exist.
	UpdateUser(ctx context.Context, externalID string, fields UserFields) (*UserRecord, error)
}

// LinkedAccountStore persists the external accounts linked to users.
type LinkedAccountStore interface {
	ListLinkedAccounts(ctx context.Context, userID int64) ([]LinkedAccount, error)

	// InsertLinkedAccounts inserts all accounts in one batch. Rows that already exist for
	// (user_id, provider, provider_user_id) are skipped, never duplicated.
	InsertLinkedAccounts(ctx context.Context, accounts []LinkedAccount) error

	// DeleteLinkedAccounts removes the accounts with the given ids in one batch.
	DeleteLinkedAccounts(ctx context.Context, ids []int64) error
}

// ActivityStore appends to the activity log.
type ActivityStore interface {
	AppendActivity(ctx context.Context, userID int64, activityType string) error
}

// Store is the full storage boundary consumed by the lifecycle handlers.
type Store interface {
	UserStore
	LinkedAccountStore
	ActivityStore
}
