package commands

import (
	"errors"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrGrantCapabilityCommandIsNotConstructed = errors.New(
	"GrantCapabilityCommand must be created via NewGrantCapabilityCommand constructor",
)

// GrantCapabilityCommand gives one actor one extra capability until ExpiresAt.
type GrantCapabilityCommand struct {
	actorID     kernel.UUID
	capability  access.Capability
	expiresAt   time.Time
	requestedBy kernel.UUID

	guard guard.ConstructorGuard
}

func NewGrantCapabilityCommand(
	actorID kernel.UUID,
	capability string,
	expiresAt time.Time,
	requestedBy kernel.UUID,
) (GrantCapabilityCommand, error) {
	c := access.Capability(capability)
	var capErr error
	if !c.IsKnown() {
		capErr = errs.NewValueIsInvalidError("capability " + capability)
	}
	var expiryErr error
	if expiresAt.IsZero() {
		expiryErr = errs.NewValueIsRequiredError("expiresAt")
	}
	if err := errors.Join(actorID.Validate(), requestedBy.Validate(), capErr, expiryErr); err != nil {
		return GrantCapabilityCommand{}, err
	}
	return GrantCapabilityCommand{
		actorID:     actorID,
		capability:  c,
		expiresAt:   expiresAt,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c GrantCapabilityCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c GrantCapabilityCommand) Capability() access.Capability {
	return c.capability
}

func (c GrantCapabilityCommand) ExpiresAt() time.Time {
	return c.expiresAt
}

func (c GrantCapabilityCommand) RequestedBy() kernel.UUID {
	return c.requestedBy
}

func (c GrantCapabilityCommand) Validate() error {
	return c.guard.Validate(ErrGrantCapabilityCommandIsNotConstructed)
}
