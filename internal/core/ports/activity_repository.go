package ports

import (
	"context"

	"orderhub/internal/core/domain/model/activity"
)

// ActivityRepository is the append-only activity ledger. It has no update
// or delete method.
type ActivityRepository interface {
	// Append writes the entry within the current unit of work.
	Append(ctx context.Context, entry activity.Entry) error

	// Query returns entries matching a normalized filter, newest first.
	Query(ctx context.Context, filter activity.Filter) ([]activity.Entry, error)
}
