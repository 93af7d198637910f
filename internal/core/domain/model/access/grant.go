package access

import (
	"errors"
	"fmt"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

// Grant is an extra capability given to one actor until ExpiresAt.
type Grant struct {
	ID         kernel.UUID
	ActorID    kernel.UUID
	Capability Capability
	GrantedBy  kernel.UUID
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

func NewGrant(actorID kernel.UUID, capability Capability, grantedBy kernel.UUID, expiresAt, now time.Time) (Grant, error) {
	if err := errors.Join(actorID.Validate(), grantedBy.Validate()); err != nil {
		return Grant{}, err
	}
	if !capability.IsKnown() {
		return Grant{}, errs.NewValueIsInvalidErrorWithCause("capability", fmt.Errorf("%q is unknown", capability))
	}
	if !expiresAt.After(now) {
		return Grant{}, errs.NewValueIsInvalidErrorWithCause("expiresAt", errors.New("must be in the future"))
	}
	return Grant{
		ID:         kernel.NewUUID(),
		ActorID:    actorID,
		Capability: capability,
		GrantedBy:  grantedBy,
		ExpiresAt:  expiresAt.UTC(),
		CreatedAt:  now.UTC(),
	}, nil
}

func (g Grant) ActiveAt(now time.Time) bool {
	return now.Before(g.ExpiresAt)
}
