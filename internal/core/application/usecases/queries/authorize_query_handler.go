package queries

import (
	"context"
	"errors"
	"log/slog"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// AuthorizeQueryHandler resolves effective permissions. It is also the permission
// resolver every command handler authorizes through.
//
// Resolution reads the capability cache first. On a miss it loads the actor, the role
// catalog and the unexpired grants in one read-only unit of work and fills the cache.
// Cache failures only cost the extra read.
type AuthorizeQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	cache      ports.CapabilityCache
	clock      ports.Clock
	logger     *slog.Logger
}

func NewAuthorizeQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	cache ports.CapabilityCache,
	clock ports.Clock,
	logger *slog.Logger,
) AuthorizeQueryHandler {
	return AuthorizeQueryHandler{
		uowFactory: uowFactory,
		cache:      cache,
		clock:      clock,
		logger:     logger.With("component", "authorizer"),
	}
}

// Handle reports whether the actor holds the capability right now. Unknown actors are
// simply not authorized.
func (h AuthorizeQueryHandler) Handle(ctx context.Context, query AuthorizeQuery) (bool, error) {
	if err := query.Validate(); err != nil {
		return false, err
	}

	p, err := h.Resolve(ctx, query.ActorID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.Allows(query.Capability(), h.clock.Now()), nil
}

// Resolve returns the effective permissions of an actor.
// Returns an ObjectNotFoundError for unknown actors.
func (h AuthorizeQueryHandler) Resolve(ctx context.Context, actorID kernel.UUID) (access.Permissions, error) {
	if h.cache != nil {
		p, found, err := h.cache.Get(ctx, actorID)
		if err != nil {
			h.logger.WarnContext(ctx, "capability cache read failed", "actorId", actorID.String(), "error", err)
		}
		if found {
			return p, nil
		}
	}

	p, err := h.load(ctx, actorID)
	if err != nil {
		return access.Permissions{}, err
	}

	if h.cache != nil {
		if err = h.cache.Set(ctx, p); err != nil {
			h.logger.WarnContext(ctx, "capability cache write failed", "actorId", actorID.String(), "error", err)
		}
	}
	return p, nil
}

func (h AuthorizeQueryHandler) load(ctx context.Context, actorID kernel.UUID) (access.Permissions, error) {
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return access.Permissions{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actor, err := uow.ActorRepository().Get(ctx, actorID)
	if err != nil {
		return access.Permissions{}, err
	}
	catalog, err := uow.RoleRepository().Catalog(ctx)
	if err != nil {
		return access.Permissions{}, err
	}
	grants, err := uow.GrantRepository().ListActive(ctx, actorID, now)
	if err != nil {
		return access.Permissions{}, err
	}

	return access.ResolvePermissions(actor, catalog, grants, now)
}
