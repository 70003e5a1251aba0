package relay

import (
	"reflect"
	"strings"
	"time"

	v1 "github.com/hooksmith/usersync/internal/api/v1"
	"github.com/hooksmith/usersync/internal/core/storage"
)

// Payload envelope keys understood by the downstream catch hook.
const (
	KeyUserCreated = "NEW_USER_CREATED"
	KeyUserUpdate  = "USER_UPDATE"
)

// Field names reported in UserUpdate.Changes.
const (
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldEmailAddresses   = "email_addresses"
	FieldExternalAccounts = "external_accounts"
)

// ExternalAccount is the relayed view of a linked account on user creation.
type ExternalAccount struct {
	Provider          string `json:"provider"`
	Strategy          string `json:"strategy,omitempty"`
	ExternalAccountID string `json:"external_account_id,omitempty"`
	EmailAddress      string `json:"email_address,omitempty"`
	ProviderUserID    string `json:"provider_user_id"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
}

// UserCreated is relayed under KeyUserCreated after a user is first stored.
type UserCreated struct {
	Type             string            `json:"type"`
	ClerkID          string            `json:"clerkId"`
	Email            string            `json:"email"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Username         string            `json:"username"`
	ExternalAccounts []ExternalAccount `json:"externalAccounts"`
	CreatedAt        int64             `json:"createdAt"`
	UpdatedAt        int64             `json:"updatedAt"`
	UniqueGlobalID   string            `json:"unique_global_id"`
}

// UserCreatedSummary builds the creation summary from the event payload and the stored row.
func UserCreatedSummary(p v1.UserPayload, user *storage.UserRecord) Summary {
	accounts := make([]ExternalAccount, 0, len(p.ExternalAccounts))
	for _, acc := range p.ExternalAccounts {
		accounts = append(accounts, ExternalAccount{
			Provider:          acc.Provider,
			Strategy:          acc.Strategy,
			ExternalAccountID: acc.ExternalAccountID,
			EmailAddress:      acc.EmailAddress,
			ProviderUserID:    acc.ProviderUserID,
			FirstName:         acc.FirstName,
			LastName:          acc.LastName,
		})
	}

	body := UserCreated{
		Type:             v1.EventUserCreated,
		ClerkID:          p.ID,
		Email:            user.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Username:         p.Username,
		ExternalAccounts: accounts,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		UniqueGlobalID:   user.UniqueGlobalID.String(),
	}

	return Summary{
		EventType:  v1.EventUserCreated,
		ExternalID: p.ID,
		Payload:    map[string]UserCreated{KeyUserCreated: body},
	}
}

// AccountSnapshot is the comparable view of a linked account.
type AccountSnapshot struct {
	Provider       string `json:"provider"`
	Email          string `json:"email,omitempty"`
	ProviderUserID string `json:"provider_user_id"`
}

// Snapshot holds the user attributes compared on update.
type Snapshot struct {
	FirstName        string
	LastName         string
	EmailAddresses   []string
	ExternalAccounts []AccountSnapshot
}

// SnapshotOfStored captures the user as stored before an update.
func SnapshotOfStored(user *storage.UserRecord, accounts []storage.LinkedAccount) Snapshot {
	emails := []string{}
	if strings.TrimSpace(user.Email) != "" {
		emails = append(emails, user.Email)
	}

	snap := make([]AccountSnapshot, 0, len(accounts))
	for _, acc := range accounts {
		snap = append(snap, AccountSnapshot{
			Provider:       acc.Provider,
			Email:          acc.Email,
			ProviderUserID: acc.ProviderUserID,
		})
	}

	return Snapshot{
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		EmailAddresses:   emails,
		ExternalAccounts: snap,
	}
}

// SnapshotOfPayload captures the user as described by an incoming event.
func SnapshotOfPayload(p v1.UserPayload) Snapshot {
	emails := make([]string, 0, len(p.EmailAddresses))
	for _, e := range p.EmailAddresses {
		emails = append(emails, e.EmailAddress)
	}

	snap := make([]AccountSnapshot, 0, len(p.ExternalAccounts))
	for _, acc := range p.ExternalAccounts {
		snap = append(snap, AccountSnapshot{
			Provider:       acc.Provider,
			Email:          acc.EmailAddress,
			ProviderUserID: acc.ProviderUserID,
		})
	}

	return Snapshot{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		EmailAddresses:   emails,
		ExternalAccounts: snap,
	}
}

// Change is the old and new value of one changed field.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangedFields returns the fields whose values differ between old and after.
func ChangedFields(before, after Snapshot) map[string]Change {
	changes := make(map[string]Change)
	if before.FirstName != after.FirstName {
		changes[FieldFirstName] = Change{Old: before.FirstName, New: after.FirstName}
	}
	if before.LastName != after.LastName {
		changes[FieldLastName] = Change{Old: before.LastName, New: after.LastName}
	}
	if !reflect.DeepEqual(nonNil(before.EmailAddresses), nonNil(after.EmailAddresses)) {
		changes[FieldEmailAddresses] = Change{Old: nonNil(before.EmailAddresses), New: nonNil(after.EmailAddresses)}
	}
	if !reflect.DeepEqual(nonNil(before.ExternalAccounts), nonNil(after.ExternalAccounts)) {
		changes[FieldExternalAccounts] = Change{Old: nonNil(before.ExternalAccounts), New: nonNil(after.ExternalAccounts)}
	}
	return changes
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// UpdateMetadata identifies the update being relayed.
type UpdateMetadata struct {
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
	EventType string `json:"event_type"`
}

// UserUpdate is relayed under KeyUserUpdate after a user is updated.
type UserUpdate struct {
	Changes  map[string]Change `json:"changes"`
	Metadata UpdateMetadata    `json:"metadata"`
}

// UserUpdatedSummary builds the update summary. The summary is sent even when no field changed.
func UserUpdatedSummary(externalID string, before, after Snapshot, at time.Time) Summary {
	body := UserUpdate{
		Changes: ChangedFields(before, after),
		Metadata: UpdateMetadata{
			Timestamp: at.UTC().Format(time.RFC3339Nano),
			UserID:    externalID,
			EventType: v1.EventUserUpdated,
		},
	}

	return Summary{
		EventType:  v1.EventUserUpdated,
		ExternalID: externalID,
		Payload:    map[string]UserUpdate{KeyUserUpdate: body},
	}
}
