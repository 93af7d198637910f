// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries never write, so none of them appends to the activity ledger.
package queries

import (
	"errors"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrAuthorizeQueryIsNotConstructed = errors.New(
	"AuthorizeQuery must be created via NewAuthorizeQuery constructor",
)

// AuthorizeQuery asks whether an actor currently holds a capability.
//
// Example:
//
//	query, err := NewAuthorizeQuery(actorID, "order.confirm")
//	if err != nil {
//	    return err
//	}
//	allowed, err := handler.Handle(ctx, query)
type AuthorizeQuery struct {
	actorID    kernel.UUID
	capability access.Capability

	guard guard.ConstructorGuard
}

func NewAuthorizeQuery(actorID kernel.UUID, capability string) (AuthorizeQuery, error) {
	c := access.Capability(capability)
	var capErr error
	if !c.IsKnown() {
		capErr = errs.NewValueIsInvalidError("capability " + capability)
	}
	if err := errors.Join(actorID.Validate(), capErr); err != nil {
		return AuthorizeQuery{}, err
	}
	return AuthorizeQuery{actorID: actorID, capability: c, guard: guard.NewConstructorGuard()}, nil
}

func (q AuthorizeQuery) ActorID() kernel.UUID {
	return q.actorID
}

func (q AuthorizeQuery) Capability() access.Capability {
	return q.capability
}

func (q AuthorizeQuery) Validate() error {
	return q.guard.Validate(ErrAuthorizeQueryIsNotConstructed)
}
