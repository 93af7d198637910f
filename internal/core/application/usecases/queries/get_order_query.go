package queries

import (
	"errors"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full view of one order: pricing breakdown, line items,
// payment state and phase timestamps.
type GetOrderQuery struct {
	orderID     kernel.UUID
	requestedBy kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID, requestedBy kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), requestedBy.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, requestedBy: requestedBy, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) RequestedBy() kernel.UUID {
	return q.requestedBy
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse is the order read model. Amounts are minor currency units.
type GetOrderQueryResponse struct {
	ID              kernel.UUID
	Number          string
	CustomerID      kernel.UUID
	CourierID       *kernel.UUID
	Status          string
	Items           []GetOrderQueryItem
	Subtotal        int64
	DeliveryFee     int64
	Tax             int64
	Total           int64
	DeliveryAddress string
	PaymentMethod   string
	PaymentStatus   string
	PaidAt          *time.Time
	Rating          *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ConfirmedAt     *time.Time
	PreparingAt     *time.Time
	ReadyAt         *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// GetOrderQueryItem is one line item of the order read model.
type GetOrderQueryItem struct {
	MenuItemID string
	Quantity   int
	UnitPrice  int64
}
