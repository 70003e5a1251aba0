package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	v1 "github.com/hooksmith/usersync/internal/api/v1"
	"github.com/hooksmith/usersync/internal/core/storage"
	"github.com/hooksmith/usersync/internal/reconcile"
	"github.com/hooksmith/usersync/internal/relay"
)

// DefaultEmail is stored when a created user has no email address.
const DefaultEmail = "default@example.com"

// ReasonNotFound is reported when an event references a user that was never created.
const ReasonNotFound = "not-found"

// Notifier relays summaries downstream. It must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, s relay.Summary)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, relay.Summary) {}

// CreateResult reports the outcome of CreateUser.
type CreateResult struct {
	// Created is false when the user already existed.
	Created        bool
	UserID         int64
	UniqueGlobalID uuid.UUID
}

// UpdateResult reports the outcome of UpdateUser.
type UpdateResult struct {
	Updated bool
	Reason  string
	UserID  int64
}

// RecordResult reports the outcome of DeleteUser and RecordSession.
type RecordResult struct {
	Recorded bool
	Reason   string
	UserID   int64
}

// Service applies user lifecycle events to the store.
type Service struct {
	store    storage.Store
	activity *ActivityLog
	notifier Notifier
	now      func() time.Time
}

func NewService(store storage.Store, notifier Notifier) *Service {
	if store == nil {
		panic("lifecycle: store must not be nil")
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		store:    store,
		activity: NewActivityLog(store),
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateUser stores the user on first delivery. Repeated or concurrent deliveries for the
// same external id resolve to the existing row without a second activity entry.
func (s *Service) CreateUser(ctx context.Context, p v1.UserPayload) (CreateResult, error) {
	if err := p.Validate(); err != nil {
		return CreateResult{}, err
	}

	now := s.now().UTC()
	user := &storage.UserRecord{
		ExternalID:     p.ID,
		Email:          p.PrimaryEmail(),
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Username:       p.Username,
		UniqueGlobalID: uuid.New(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if user.Email == "" {
		user.Email = DefaultEmail
	}

	err := s.store.InsertUser(ctx, user)
	if errors.Is(err, storage.ErrDuplicate) {
		existing, err := s.store.GetUserByExternalID(ctx, p.ID)
		if err != nil {
			return CreateResult{}, fmt.Errorf("failed to load existing user: %w", err)
		}
		slog.Info("User already exists, skipping create",
			"external_id", p.ID,
			"user_id", existing.ID)
		if err := s.backfillAccounts(ctx, existing.ID, p.ExternalAccounts); err != nil {
			return CreateResult{}, err
		}
		return CreateResult{Created: false, UserID: existing.ID, UniqueGlobalID: existing.UniqueGlobalID}, nil
	}
	if err != nil {
		return CreateResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created",
		"external_id", p.ID,
		"user_id", user.ID,
		"linked_accounts", len(p.ExternalAccounts))

	if err := s.activity.Log(ctx, user.ID, storage.ActivitySignup); err != nil {
		return CreateResult{}, err
	}

	if _, err := reconcile.Apply(ctx, s.store, user.ID, reconcile.Diff(nil, p.ExternalAccounts)); err != nil {
		return CreateResult{}, err
	}

	s.notifier.Notify(ctx, relay.UserCreatedSummary(p, user))

	return CreateResult{Created: true, UserID: user.ID, UniqueGlobalID: user.UniqueGlobalID}, nil
}

// UpdateUser merges the payload into the stored user and reconciles linked accounts.
// Blank incoming fields keep the stored value. Concurrent updates are last write wins.
func (s *Service) UpdateUser(ctx context.Context, p v1.UserPayload) (UpdateResult, error) {
	if err := p.Validate(); err != nil {
		return UpdateResult{}, err
	}

	user, err := s.store.GetUserByExternalID(ctx, p.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("User not found, skipping update", "external_id", p.ID)
		return UpdateResult{Updated: false, Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	existing, err := s.store.ListLinkedAccounts(ctx, user.ID)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to load linked accounts: %w", err)
	}
	before := relay.SnapshotOfStored(user, existing)

	now := s.now().UTC()
	fields := storage.UserFields{
		Email:     firstNonBlank(p.PrimaryEmail(), user.Email),
		FirstName: firstNonBlank(p.FirstName, user.FirstName),
		LastName:  firstNonBlank(p.LastName, user.LastName),
		Username:  firstNonBlank(p.Username, user.Username),
		UpdatedAt: now,
	}

	updated, err := s.store.UpdateUser(ctx, p.ID, fields)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("User disappeared before update, skipping", "external_id", p.ID)
		return UpdateResult{Updated: false, Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to update user: %w", err)
	}

	if _, err := reconcile.Apply(ctx, s.store, updated.ID, reconcile.Diff(existing, p.ExternalAccounts)); err != nil {
		return UpdateResult{}, err
	}

	// Appended only once every write above succeeded; a retried delivery logs one entry.
	if err := s.activity.Log(ctx, updated.ID, storage.ActivityUpdate); err != nil {
		return UpdateResult{}, err
	}

	slog.Info("User updated", "external_id", p.ID, "user_id", updated.ID)

	s.notifier.Notify(ctx, relay.UserUpdatedSummary(p.ID, before, relay.SnapshotOfPayload(p), now))

	return UpdateResult{Updated: true, UserID: updated.ID}, nil
}

// DeleteUser records a delete activity for a known user. The user row is kept.
func (s *Service) DeleteUser(ctx context.Context, p v1.DeletedPayload) (RecordResult, error) {
	if err := p.Validate(); err != nil {
		return RecordResult{}, err
	}
	return s.record(ctx, p.ID, storage.ActivityDelete)
}

// RecordSession records a session activity for the session's user.
func (s *Service) RecordSession(ctx context.Context, p v1.SessionPayload) (RecordResult, error) {
	if err := p.Validate(); err != nil {
		return RecordResult{}, err
	}
	return s.record(ctx, p.UserID, storage.ActivitySession)
}

func (s *Service) record(ctx context.Context, externalID, activityType string) (RecordResult, error) {
	user, err := s.store.GetUserByExternalID(ctx, externalID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("User not found, skipping activity",
			"external_id", externalID,
			"activity_type", activityType)
		return RecordResult{Recorded: false, Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return RecordResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.activity.Log(ctx, user.ID, activityType); err != nil {
		return RecordResult{}, err
	}
	return RecordResult{Recorded: true, UserID: user.ID}, nil
}

// backfillAccounts links the payload's accounts when a previous create stopped after
// the insert. The account insert is a single batch, so such a user has none stored.
// Users with stored accounts are left alone so a replayed create cannot undo an update.
func (s *Service) backfillAccounts(ctx context.Context, userID int64, incoming []v1.LinkedAccount) error {
	if len(incoming) == 0 {
		return nil
	}
	stored, err := s.store.ListLinkedAccounts(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load linked accounts: %w", err)
	}
	if len(stored) > 0 {
		return nil
	}
	_, err = reconcile.Apply(ctx, s.store, userID, reconcile.Diff(nil, incoming))
	return err
}

func firstNonBlank(incoming, stored string) string {
	if v := strings.TrimSpace(incoming); v != "" {
		return v
	}
	return stored
}
