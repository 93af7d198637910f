package commands

import (
	"context"
	"log/slog"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/core/ports"
)

// DeactivateActorCommandHandler flips the active flag off. Orders keep referencing the actor,
// except that a courier's reservations on orders not yet handed over are released so the
// dispatcher can pick someone else.
type DeactivateActorCommandHandler struct {
	uowFactory UoWFactory
	resolver   PermissionResolver
	cache      ports.CapabilityCache
	clock      ports.Clock
	rules      services.AccessRules
	logger     *slog.Logger
}

func NewDeactivateActorCommandHandler(
	uowFactory UoWFactory,
	resolver PermissionResolver,
	cache ports.CapabilityCache,
	clock ports.Clock,
	logger *slog.Logger,
) DeactivateActorCommandHandler {
	return DeactivateActorCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		cache:      cache,
		clock:      clock,
		rules:      services.NewAccessRules(),
		logger:     logger.With("component", "deactivate-actor"),
	}
}

func (h DeactivateActorCommandHandler) Handle(ctx context.Context, command DeactivateActorCommand) (*access.Actor, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	requester, err := resolveRequester(ctx, h.resolver, command.RequestedBy(), access.CapActorDeactivate)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actors := uow.ActorRepository()
	subject, err := actors.GetForUpdate(ctx, command.ActorID())
	if err != nil {
		return nil, err
	}
	if err = h.rules.CheckDeactivation(requester, subject, now); err != nil {
		return nil, err
	}
	if err = subject.Deactivate(); err != nil {
		return nil, err
	}
	if err = actors.Update(ctx, subject); err != nil {
		return nil, err
	}

	details := activity.Details{"role": string(subject.Role())}
	if subject.HasRole(access.RoleCourier) {
		released, releaseErr := uow.OrderRepository().ReleaseReservations(ctx, subject.ID())
		if releaseErr != nil {
			return nil, releaseErr
		}
		if len(released) > 0 {
			ids := make([]string, 0, len(released))
			for _, id := range released {
				ids = append(ids, id.String())
			}
			details["releasedOrders"] = ids
		}
	}

	requestedBy := command.RequestedBy()
	if err = record(ctx, uow.ActivityRepository(), &requestedBy, activity.ActionActorDeactivated, activity.EntityActor,
		subject.ID().String(), details, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	invalidate(ctx, h.cache, h.logger, subject)
	return subject, nil
}
