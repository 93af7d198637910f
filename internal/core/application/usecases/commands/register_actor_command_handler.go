package commands

import (
	"context"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/courier"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
)

// RegisterActorCommandHandler creates actors. Couriers also get their courier profile in
// the same unit of work.
type RegisterActorCommandHandler struct {
	uowFactory UoWFactory
	hasher     ports.PasswordHasher
	clock      ports.Clock
}

func NewRegisterActorCommandHandler(uowFactory UoWFactory, hasher ports.PasswordHasher, clock ports.Clock) RegisterActorCommandHandler {
	return RegisterActorCommandHandler{uowFactory: uowFactory, hasher: hasher, clock: clock}
}

func (h RegisterActorCommandHandler) Handle(ctx context.Context, command RegisterActorCommand) (*access.Actor, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	var hash string
	if !command.Guest() {
		var err error
		if hash, err = h.hasher.Hash(command.Secret()); err != nil {
			return nil, err
		}
	}

	actor, err := access.NewActor(kernel.NewUUID(), command.Email(), command.Phone(), command.Name(), hash,
		command.Role(), command.Guest(), now)
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

	if err = uow.ActorRepository().Add(ctx, actor); err != nil {
		return nil, err
	}
	if actor.HasRole(access.RoleCourier) {
		profile, profileErr := courier.NewCourier(actor.ID(), actor.Name(), now)
		if profileErr != nil {
			return nil, profileErr
		}
		if err = uow.CourierRepository().Add(ctx, profile); err != nil {
			return nil, err
		}
	}

	actorID := actor.ID()
	if err = record(ctx, uow.ActivityRepository(), &actorID, activity.ActionActorRegistered, activity.EntityActor,
		actorID.String(), activity.Details{"role": string(actor.Role()), "guest": actor.IsGuest()}, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return actor, nil
}
