package ports

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
)

// ActorRepository defines the persistence contract for actors.
type ActorRepository interface {
	// Add persists a new actor. A duplicate email or phone is a StateConflictError.
	Add(ctx context.Context, aggregate *access.Actor) error

	Update(ctx context.Context, aggregate *access.Actor) error

	Get(ctx context.Context, id kernel.UUID) (*access.Actor, error)

	// GetForUpdate loads the actor holding a row lock until the unit of work ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*access.Actor, error)

	// FindByIdentifierForUpdate locks and loads the actor whose email or phone equals identifier.
	FindByIdentifierForUpdate(ctx context.Context, identifier string) (*access.Actor, error)

	// LockRole serialises membership changes of one role until the unit of work ends.
	LockRole(ctx context.Context, role access.RoleName) error

	// CountActiveWithRole counts active actors currently holding role.
	CountActiveWithRole(ctx context.Context, role access.RoleName) (int, error)
}

// RoleRepository reads and seeds the static role catalog.
type RoleRepository interface {
	Catalog(ctx context.Context) (access.RoleCatalog, error)
	Upsert(ctx context.Context, role access.Role) error
}

// GrantRepository stores time-bound capability grants.
type GrantRepository interface {
	Add(ctx context.Context, grant access.Grant) error

	// ListActive returns the grants of actorID that have not expired at now.
	ListActive(ctx context.Context, actorID kernel.UUID, now time.Time) ([]access.Grant, error)
}
