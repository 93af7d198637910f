package commands

import (
	"errors"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand moves an order along one edge of the status graph on behalf of an actor.
type TransitionOrderCommand struct {
	orderID kernel.UUID
	target  order.Status
	actorID kernel.UUID
	notes   string

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(orderID kernel.UUID, target string, actorID kernel.UUID, notes string) (TransitionOrderCommand, error) {
	status, err := order.ParseStatus(strings.ToUpper(strings.TrimSpace(target)))
	if err = errors.Join(orderID.Validate(), actorID.Validate(), err); err != nil {
		return TransitionOrderCommand{}, err
	}
	return TransitionOrderCommand{
		orderID: orderID,
		target:  status,
		actorID: actorID,
		notes:   strings.TrimSpace(notes),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

func (c TransitionOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c TransitionOrderCommand) Notes() string {
	return c.notes
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}
