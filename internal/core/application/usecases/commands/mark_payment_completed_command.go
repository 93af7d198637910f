package commands

import (
	"errors"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrMarkPaymentCompletedCommandIsNotConstructed = errors.New(
	"MarkPaymentCompletedCommand must be created via NewMarkPaymentCompletedCommand constructor",
)

// MarkPaymentCompletedCommand is the payment gateway telling us an order was paid.
type MarkPaymentCompletedCommand struct {
	orderID   kernel.UUID
	reference string

	guard guard.ConstructorGuard
}

func NewMarkPaymentCompletedCommand(orderID kernel.UUID, reference string) (MarkPaymentCompletedCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkPaymentCompletedCommand{}, err
	}
	return MarkPaymentCompletedCommand{
		orderID:   orderID,
		reference: strings.TrimSpace(reference),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c MarkPaymentCompletedCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c MarkPaymentCompletedCommand) Reference() string {
	return c.reference
}

func (c MarkPaymentCompletedCommand) Validate() error {
	return c.guard.Validate(ErrMarkPaymentCompletedCommandIsNotConstructed)
}
