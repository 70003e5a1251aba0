// Package reconcile computes and applies the minimal change set between a user's stored
// linked accounts and the accounts carried by an incoming event.
//
// Accounts are compared by membership only: two accounts are the same iff their
// (provider, provider_user_id) keys match. Attribute drift on a shared key is not an update.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	v1 "github.com/hooksmith/usersync/internal/api/v1"
	"github.com/hooksmith/usersync/internal/core/storage"
)

// Key is the identity of a linked account.
type Key struct {
	Provider       string
	ProviderUserID string
}

func keyOfStored(acc storage.LinkedAccount) Key {
	return Key{Provider: acc.Provider, ProviderUserID: acc.ProviderUserID}
}

func keyOfIncoming(acc v1.LinkedAccount) Key {
	return Key{Provider: acc.Provider, ProviderUserID: acc.ProviderUserID}
}

// Plan is the set difference between stored and incoming accounts.
type Plan struct {
	// ToAdd holds incoming accounts whose key is not stored, in incoming order.
	ToAdd []v1.LinkedAccount

	// ToRemove holds stored accounts whose key is absent from the incoming set, in stored order.
	ToRemove []storage.LinkedAccount
}

// Empty reports whether applying the plan would change nothing.
func (p Plan) Empty() bool {
	return len(p.ToAdd) == 0 && len(p.ToRemove) == 0
}

// Outcome reports what Apply did.
type Outcome struct {
	Added   int
	Removed int
	Noop    bool
}

// Diff is pure and never fails. Duplicate keys in incoming collapse to their first occurrence.
func Diff(existing []storage.LinkedAccount, incoming []v1.LinkedAccount) Plan {
	stored := make(map[Key]struct{}, len(existing))
	for _, acc := range existing {
		stored[keyOfStored(acc)] = struct{}{}
	}

	var plan Plan
	wanted := make(map[Key]struct{}, len(incoming))
	for _, acc := range incoming {
		k := keyOfIncoming(acc)
		if _, seen := wanted[k]; seen {
			continue
		}
		wanted[k] = struct{}{}
		if _, ok := stored[k]; !ok {
			plan.ToAdd = append(plan.ToAdd, acc)
		}
	}

	for _, acc := range existing {
		if _, ok := wanted[keyOfStored(acc)]; !ok {
			plan.ToRemove = append(plan.ToRemove, acc)
		}
	}

	return plan
}

// Apply inserts plan.ToAdd for userID in one batch, then deletes plan.ToRemove in one batch.
// Empty steps are skipped. The first failure aborts and is returned; an insert that
// succeeded before a failed delete is not rolled back.
func Apply(ctx context.Context, store storage.LinkedAccountStore, userID int64, plan Plan) (Outcome, error) {
	if plan.Empty() {
		slog.Info("No changes to linked accounts", "user_id", userID)
		return Outcome{Noop: true}, nil
	}

	var out Outcome

	if len(plan.ToAdd) > 0 {
		rows := make([]storage.LinkedAccount, 0, len(plan.ToAdd))
		for _, acc := range plan.ToAdd {
			rows = append(rows, storage.LinkedAccount{
				UserID:         userID,
				Provider:       acc.Provider,
				ProviderUserID: acc.ProviderUserID,
				Email:          acc.EmailAddress,
				ProfileURL:     acc.ProfileImageURL,
			})
		}
		if err := store.InsertLinkedAccounts(ctx, rows); err != nil {
			return out, fmt.Errorf("failed to add linked accounts: %w", err)
		}
		out.Added = len(rows)
		slog.Info("Added linked accounts", "user_id", userID, "count", out.Added)
	}

	if len(plan.ToRemove) > 0 {
		ids := make([]int64, 0, len(plan.ToRemove))
		for _, acc := range plan.ToRemove {
			ids = append(ids, acc.ID)
		}
		if err := store.DeleteLinkedAccounts(ctx, ids); err != nil {
			return out, fmt.Errorf("failed to remove linked accounts: %w", err)
		}
		out.Removed = len(ids)
		slog.Info("Removed linked accounts", "user_id", userID, "count", out.Removed)
	}

	return out, nil
}
