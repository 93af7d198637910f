package commands

import (
	"errors"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItemInput is one requested line. ClientPrice is accepted for compatibility with
// clients that send it and is never used for pricing.
type OrderItemInput struct {
	MenuItemID  string
	Quantity    int
	ClientPrice *int64
}

// CreateOrderCommand places a new order on behalf of a customer.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customerID, items, "Moi Avenue 12", "+254700000000", "mpesa")
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct {
	customerID      kernel.UUID
	items           []OrderItemInput
	deliveryAddress string
	contact         string
	paymentMethod   order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. Prices are resolved later by the handler.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	items []OrderItemInput,
	deliveryAddress, contact, paymentMethod string,
) (CreateOrderCommand, error) {
	var errList []error
	if err := customerID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if len(items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("items"))
	}
	for _, it := range items {
		if strings.TrimSpace(it.MenuItemID) == "" {
			errList = append(errList, errs.NewValueIsRequiredError("menuItemID"))
		}
		if it.Quantity < order.MinItemQuantity || it.Quantity > order.MaxItemQuantity {
			errList = append(errList, errs.NewValueIsOutOfRangeError(
				"quantity", it.Quantity, order.MinItemQuantity, order.MaxItemQuantity))
		}
	}
	if strings.TrimSpace(deliveryAddress) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("deliveryAddress"))
	}
	if strings.TrimSpace(contact) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("contact"))
	}
	method, err := order.ParsePaymentMethod(paymentMethod)
	if err != nil {
		errList = append(errList, err)
	}
	if err = errors.Join(errList...); err != nil {
		return CreateOrderCommand{}, err
	}

	copied := make([]OrderItemInput, len(items))
	copy(copied, items)

	return CreateOrderCommand{
		customerID:      customerID,
		items:           copied,
		deliveryAddress: deliveryAddress,
		contact:         contact,
		paymentMethod:   method,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) Items() []OrderItemInput {
	return c.items
}

func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c CreateOrderCommand) Contact() string {
	return c.contact
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}
