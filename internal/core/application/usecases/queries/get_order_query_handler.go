package queries

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order with direct SQL queries.
type GetOrderQueryHandler struct {
	db       *gorm.DB
	resolver PermissionResolver
	clock    ports.Clock
}

func NewGetOrderQueryHandler(db *gorm.DB, resolver PermissionResolver, clock ports.Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, resolver: resolver, clock: clock}
}

type orderRow struct {
	ID              uuid.UUID
	Number          string
	CustomerID      uuid.UUID
	CourierID       *uuid.UUID
	Status          string
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

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if err := checkOrderVisible(ctx, h.db, h.resolver, query.OrderID(), query.RequestedBy(), h.clock.Now()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var row orderRow
	if err := h.db.WithContext(ctx).Raw(`
		SELECT
			id, number, customer_id, courier_id, status,
			subtotal, delivery_fee, tax, total,
			delivery_address, payment_method, payment_status, paid_at, rating,
			created_at, updated_at, confirmed_at, preparing_at, ready_at,
			picked_up_at, delivered_at, cancelled_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&row).Error; err != nil {
		return GetOrderQueryResponse{}, err
	}

	var items []GetOrderQueryItem
	if err := h.db.WithContext(ctx).Raw(`
		SELECT
			menu_item_id,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, query.OrderID().Bytes()).Scan(&items).Error; err != nil {
		return GetOrderQueryResponse{}, err
	}

	return toOrderResponse(row, items)
}

func toOrderResponse(row orderRow, items []GetOrderQueryItem) (GetOrderQueryResponse, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	customerID, err := kernel.UUIDFromBytes(row.CustomerID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	var courierID *kernel.UUID
	if row.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes(row.CourierID[:])
		if courierErr != nil {
			return GetOrderQueryResponse{}, courierErr
		}
		courierID = &cID
	}

	if items == nil {
		items = []GetOrderQueryItem{}
	}

	return GetOrderQueryResponse{
		ID:              id,
		Number:          row.Number,
		CustomerID:      customerID,
		CourierID:       courierID,
		Status:          row.Status,
		Items:           items,
		Subtotal:        row.Subtotal,
		DeliveryFee:     row.DeliveryFee,
		Tax:             row.Tax,
		Total:           row.Total,
		DeliveryAddress: row.DeliveryAddress,
		PaymentMethod:   row.PaymentMethod,
		PaymentStatus:   row.PaymentStatus,
		PaidAt:          row.PaidAt,
		Rating:          row.Rating,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
		ConfirmedAt:     row.ConfirmedAt,
		PreparingAt:     row.PreparingAt,
		ReadyAt:         row.ReadyAt,
		PickedUpAt:      row.PickedUpAt,
		DeliveredAt:     row.DeliveredAt,
		CancelledAt:     row.CancelledAt,
	}, nil
}
