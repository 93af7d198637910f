package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand asks the matcher to find a courier for one order.
// A nil requester marks a system-initiated assignment (the dispatch job), which needs no capability.
//
// Example:
//
//	cmd, _ := NewAssignCourierCommand(orderID, &staffID)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrNoCourierAvailable) {
//	    // try again later
//	}
type AssignCourierCommand struct {
	orderID     kernel.UUID
	requestedBy *kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignCourierCommand(orderID kernel.UUID, requestedBy *kernel.UUID) (AssignCourierCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignCourierCommand{}, err
	}
	if requestedBy != nil {
		if err := requestedBy.Validate(); err != nil {
			return AssignCourierCommand{}, err
		}
	}
	return AssignCourierCommand{
		orderID:     orderID,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AssignCourierCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignCourierCommand) RequestedBy() *kernel.UUID {
	return c.requestedBy
}

// Validate ensures the command was created through the constructor.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}
