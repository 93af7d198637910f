package ports

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/courier"
	"orderhub/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update writes statistics and position, bumping the version.
	Update(ctx context.Context, aggregate *courier.Courier) error

	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetForUpdate loads the courier holding a row lock until the unit of work ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// Reserve bumps the version of the courier only if it still equals observed.
	// Returns a StateConflictError when the courier was reserved or updated concurrently.
	Reserve(ctx context.Context, id kernel.UUID, observed int64) error

	// ListCandidates returns couriers whose actor is active and not locked at now,
	// each with its count of orders currently out for delivery.
	ListCandidates(ctx context.Context, now time.Time) ([]courier.Candidate, error)

	// IsEligible reports whether the courier would be a candidate at now.
	IsEligible(ctx context.Context, id kernel.UUID, now time.Time) (bool, error)
}
