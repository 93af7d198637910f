package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrDeactivateActorCommandIsNotConstructed = errors.New(
	"DeactivateActorCommand must be created via NewDeactivateActorCommand constructor",
)

// DeactivateActorCommand soft-deletes an actor.
type DeactivateActorCommand struct {
	actorID     kernel.UUID
	requestedBy kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeactivateActorCommand(actorID, requestedBy kernel.UUID) (DeactivateActorCommand, error) {
	if err := errors.Join(actorID.Validate(), requestedBy.Validate()); err != nil {
		return DeactivateActorCommand{}, err
	}
	return DeactivateActorCommand{actorID: actorID, requestedBy: requestedBy, guard: guard.NewConstructorGuard()}, nil
}

func (c DeactivateActorCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c DeactivateActorCommand) RequestedBy() kernel.UUID {
	return c.requestedBy
}

func (c DeactivateActorCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateActorCommandIsNotConstructed)
}
