package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrPromoteActorCommandIsNotConstructed = errors.New(
	"PromoteActorCommand must be created via NewPromoteActorCommand constructor",
)

// PromoteActorCommand replaces an actor's role. Despite the name it also demotes.
type PromoteActorCommand struct {
	actorID     kernel.UUID
	targetRole  access.RoleName
	requestedBy kernel.UUID

	guard guard.ConstructorGuard
}

func NewPromoteActorCommand(actorID kernel.UUID, targetRole string, requestedBy kernel.UUID) (PromoteActorCommand, error) {
	role, err := access.ParseRoleName(targetRole)
	if err = errors.Join(actorID.Validate(), requestedBy.Validate(), err); err != nil {
		return PromoteActorCommand{}, err
	}
	return PromoteActorCommand{
		actorID:     actorID,
		targetRole:  role,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c PromoteActorCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c PromoteActorCommand) TargetRole() access.RoleName {
	return c.targetRole
}

func (c PromoteActorCommand) RequestedBy() kernel.UUID {
	return c.requestedBy
}

func (c PromoteActorCommand) Validate() error {
	return c.guard.Validate(ErrPromoteActorCommandIsNotConstructed)
}
