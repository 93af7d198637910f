// Package ports defines the contracts between the application core and its adapters:
// repositories bound to a unit of work and the external collaborators the core consumes.
package ports

import (
	"context"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order only if its stored status still equals observed.
	// Returns a StateConflictError when another writer got there first; nothing is written then.
	Update(ctx context.Context, aggregate *order.Order, observed order.Status) error

	// Get retrieves an order with its line items.
	// Returns an ObjectNotFoundError if it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads the order holding a row lock until the unit of work ends.
	// Used for changes that do not move the status and so cannot rely on the status guard.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByStatus returns up to limit orders in status, oldest first.
	ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)

	// ListOutForDeliveryByCourier returns the orders the courier is currently carrying.
	ListOutForDeliveryByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)

	// ReleaseReservations clears courierID from every order reserved for it but not yet
	// handed over, returning the released order ids.
	ReleaseReservations(ctx context.Context, courierID kernel.UUID) ([]kernel.UUID, error)
}

// TrackingRepository is the append-only store of TrackingEntries.
type TrackingRepository interface {
	Append(ctx context.Context, entry order.TrackingEntry) error

	// ListByOrder returns the entries of one order ordered by timestamp.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.TrackingEntry, error)
}
