package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand is sent by the courier carrying the order when it hands it over.
type CompleteDeliveryCommand struct {
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(orderID, courierID kernel.UUID) (CompleteDeliveryCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate()); err != nil {
		return CompleteDeliveryCommand{}, err
	}
	return CompleteDeliveryCommand{orderID: orderID, courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CompleteDeliveryCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}
