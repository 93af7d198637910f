package commands

import (
	"context"
	"log/slog"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// PromoteActorCommandHandler changes an actor's role while keeping capped roles within
// their membership limit.
//
// The headcount check and the role change run under a transaction-scoped lock on the
// target role, so two concurrent promotions into the same capped role are serialised and
// the second one sees the first one's member.
type PromoteActorCommandHandler struct {
	uowFactory UoWFactory
	resolver   PermissionResolver
	cache      ports.CapabilityCache
	clock      ports.Clock
	rules      services.AccessRules
	logger     *slog.Logger
}

func NewPromoteActorCommandHandler(
	uowFactory UoWFactory,
	resolver PermissionResolver,
	cache ports.CapabilityCache,
	clock ports.Clock,
	logger *slog.Logger,
) PromoteActorCommandHandler {
	return PromoteActorCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		cache:      cache,
		clock:      clock,
		rules:      services.NewAccessRules(),
		logger:     logger.With("component", "promote-actor"),
	}
}

func (h PromoteActorCommandHandler) Handle(ctx context.Context, command PromoteActorCommand) (*access.Actor, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	requester, err := resolveRequester(ctx, h.resolver, command.RequestedBy(), access.CapRoleManage)
	if err != nil {
		return nil, err
	}
	if err = h.rules.CheckPromotion(requester, command.TargetRole(), now); err != nil {
		return nil, err
	}
	if command.ActorID().IsEqual(command.RequestedBy()) {
		return nil, errs.NewPermissionDeniedError("another actor")
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	catalog, err := uow.RoleRepository().Catalog(ctx)
	if err != nil {
		return nil, err
	}
	role, err := catalog.Get(command.TargetRole())
	if err != nil {
		return nil, err
	}

	actors := uow.ActorRepository()
	if role.IsCapped() {
		if err = actors.LockRole(ctx, role.Name()); err != nil {
			return nil, err
		}
	}

	subject, err := actors.GetForUpdate(ctx, command.ActorID())
	if err != nil {
		return nil, err
	}
	if subject.HasRole(access.RoleSuperAdmin) && requester.Role != access.RoleSuperAdmin {
		return nil, errs.NewPermissionDeniedError(string(access.RoleSuperAdmin))
	}

	if role.IsCapped() {
		members, countErr := actors.CountActiveWithRole(ctx, role.Name())
		if countErr != nil {
			return nil, countErr
		}
		if !role.HasCapacity(members) {
			return nil, errs.NewRoleLimitExceededError(string(role.Name()), role.MaxMembers())
		}
	}

	previous := subject.Role()
	if err = subject.ReplaceRole(role.Name()); err != nil {
		return nil, err
	}
	if err = actors.Update(ctx, subject); err != nil {
		return nil, err
	}

	requestedBy := command.RequestedBy()
	if err = record(ctx, uow.ActivityRepository(), &requestedBy, activity.ActionActorPromoted, activity.EntityActor,
		subject.ID().String(), activity.Details{"from": string(previous), "to": string(role.Name())}, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	invalidate(ctx, h.cache, h.logger, subject)
	return subject, nil
}
