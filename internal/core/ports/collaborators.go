package ports

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
)

// Catalog is the menu service. GetItemPrice returns an ItemUnavailableError for unknown
// or unavailable items.
type Catalog interface {
	GetItemPrice(ctx context.Context, itemID string) (kernel.Money, error)
}

// EventKind names a notification sent to an actor.
type EventKind string

const (
	EventOrderPlaced      EventKind = "order_placed"
	EventOrderStatus      EventKind = "order_status_changed"
	EventCourierAssigned  EventKind = "courier_assigned"
	EventOrderDelivered   EventKind = "order_delivered"
	EventPaymentConfirmed EventKind = "payment_confirmed"
)

// Notifier delivers fire-and-forget notifications. It is only called after commit and
// its failures never undo the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, contact string, kind EventKind, payload map[string]any) error
}

// CapabilityCache stores resolved permissions keyed by actor.
type CapabilityCache interface {
	// Get returns the cached permissions and whether they were found.
	Get(ctx context.Context, actorID kernel.UUID) (access.Permissions, bool, error)
	Set(ctx context.Context, permissions access.Permissions) error
	Invalidate(ctx context.Context, actorID kernel.UUID) error
}

// PasswordHasher hashes and verifies actor secrets.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(hash, secret string) bool
}

// TokenIssuer turns a session into an opaque bearer token and back.
type TokenIssuer interface {
	Issue(session access.Session) (string, error)
	Parse(token string) (access.Session, error)
}

// Clock abstracts time for use cases.
type Clock interface {
	Now() time.Time
}

// Recommender suggests menu items to a customer. No implementation lives in the core.
type Recommender interface {
	Recommend(ctx context.Context, customerID kernel.UUID, limit int) ([]string, error)
}

// Metrics receives business counters from the use cases.
type Metrics interface {
	OrderTransitioned(from, to string)
	AssignmentFinished(outcome string, attempts int)
	AuthenticationFinished(outcome string)
}
