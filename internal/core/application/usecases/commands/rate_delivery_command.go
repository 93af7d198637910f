package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrRateDeliveryCommandIsNotConstructed = errors.New(
	"RateDeliveryCommand must be created via NewRateDeliveryCommand constructor",
)

// RateDeliveryCommand records the customer's 1..5 rating of a delivered order.
type RateDeliveryCommand struct {
	orderID    kernel.UUID
	customerID kernel.UUID
	rating     int

	guard guard.ConstructorGuard
}

func NewRateDeliveryCommand(orderID kernel.UUID, rating int, customerID kernel.UUID) (RateDeliveryCommand, error) {
	var rangeErr error
	if rating < order.MinRating || rating > order.MaxRating {
		rangeErr = errs.NewValueIsOutOfRangeError("rating", rating, order.MinRating, order.MaxRating)
	}
	if err := errors.Join(orderID.Validate(), customerID.Validate(), rangeErr); err != nil {
		return RateDeliveryCommand{}, err
	}
	return RateDeliveryCommand{
		orderID:    orderID,
		customerID: customerID,
		rating:     rating,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RateDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RateDeliveryCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c RateDeliveryCommand) Rating() int {
	return c.rating
}

func (c RateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRateDeliveryCommandIsNotConstructed)
}
