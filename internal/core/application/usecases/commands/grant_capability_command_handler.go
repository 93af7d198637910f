package commands

import (
	"context"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// GrantCapabilityCommandHandler stores time-bound grants.
type GrantCapabilityCommandHandler struct {
	uowFactory UoWFactory
	resolver   PermissionResolver
	cache      ports.CapabilityCache
	clock      ports.Clock
	logger     *slog.Logger
}

func NewGrantCapabilityCommandHandler(
	uowFactory UoWFactory,
	resolver PermissionResolver,
	cache ports.CapabilityCache,
	clock ports.Clock,
	logger *slog.Logger,
) GrantCapabilityCommandHandler {
	return GrantCapabilityCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		cache:      cache,
		clock:      clock,
		logger:     logger.With("component", "grant-capability"),
	}
}

func (h GrantCapabilityCommandHandler) Handle(ctx context.Context, command GrantCapabilityCommand) (access.Grant, error) {
	if err := command.Validate(); err != nil {
		return access.Grant{}, err
	}

	now := h.clock.Now()
	if _, err := requireCapability(ctx, h.resolver, command.RequestedBy(), access.CapCapabilityGrant, now); err != nil {
		return access.Grant{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return access.Grant{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	subject, err := uow.ActorRepository().Get(ctx, command.ActorID())
	if err != nil {
		return access.Grant{}, err
	}
	if !subject.IsActive() {
		return access.Grant{}, errs.NewStateConflictError("actor", "is inactive")
	}

	grant, err := access.NewGrant(subject.ID(), command.Capability(), command.RequestedBy(), command.ExpiresAt(), now)
	if err != nil {
		return access.Grant{}, err
	}
	if err = uow.GrantRepository().Add(ctx, grant); err != nil {
		return access.Grant{}, err
	}

	requestedBy := command.RequestedBy()
	if err = record(ctx, uow.ActivityRepository(), &requestedBy, activity.ActionCapabilityGranted, activity.EntityActor,
		subject.ID().String(), activity.Details{
			"capability": string(grant.Capability),
			"expiresAt":  grant.ExpiresAt.Format(time.RFC3339),
		}, now); err != nil {
		return access.Grant{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return access.Grant{}, err
	}

	invalidate(ctx, h.cache, h.logger, subject)
	return grant, nil
}
