package queries

import (
	"errors"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrGetOrderTrackingHistoryQueryIsNotConstructed = errors.New(
	"GetOrderTrackingHistoryQuery must be created via NewGetOrderTrackingHistoryQuery constructor",
)

// GetOrderTrackingHistoryQuery retrieves every TrackingEntry of one order, oldest first.
type GetOrderTrackingHistoryQuery struct {
	orderID     kernel.UUID
	requestedBy kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderTrackingHistoryQuery(orderID, requestedBy kernel.UUID) (GetOrderTrackingHistoryQuery, error) {
	if err := errors.Join(orderID.Validate(), requestedBy.Validate()); err != nil {
		return GetOrderTrackingHistoryQuery{}, err
	}
	return GetOrderTrackingHistoryQuery{
		orderID:     orderID,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderTrackingHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderTrackingHistoryQuery) RequestedBy() kernel.UUID {
	return q.requestedBy
}

func (q GetOrderTrackingHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingHistoryQueryIsNotConstructed)
}

// GetOrderTrackingHistoryQueryResponse is one tracking entry in the read model.
// Lat and Lng are set together or not at all.
type GetOrderTrackingHistoryQueryResponse struct {
	ID        kernel.UUID
	Status    string
	Lat       *float64
	Lng       *float64
	Note      string
	CreatedAt time.Time
}
