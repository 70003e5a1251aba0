package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hooksmith/usersync/internal/core/storage"
)

// ActivityLog appends lifecycle transitions to the activity log.
type ActivityLog struct {
	store storage.ActivityStore
}

func NewActivityLog(store storage.ActivityStore) *ActivityLog {
	return &ActivityLog{store: store}
}

// Log writes exactly one row. Failures are returned, never retried.
func (l *ActivityLog) Log(ctx context.Context, userID int64, activityType string) error {
	if err := l.store.AppendActivity(ctx, userID, activityType); err != nil {
		return fmt.Errorf("failed to log %s activity: %w", activityType, err)
	}
	slog.Debug("Activity logged", "user_id", userID, "activity_type", activityType)
	return nil
}
