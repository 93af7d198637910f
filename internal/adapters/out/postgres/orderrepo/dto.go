// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate and its
// tracking entries, handling the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored by name so the table stays readable from SQL.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number          string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CourierID       *uuid.UUID `gorm:"type:uuid;index"`
	Status          string     `gorm:"type:varchar(32);not null;index"`
	Subtotal        int64      `gorm:"not null"`
	DeliveryFee     int64      `gorm:"not null"`
	Tax             int64      `gorm:"not null"`
	Total           int64      `gorm:"not null"`
	DeliveryAddress string     `gorm:"type:text;not null"`
	Contact         string     `gorm:"type:varchar(255);not null"`
	PaymentMethod   string     `gorm:"type:varchar(16);not null"`
	PaymentStatus   string     `gorm:"type:varchar(16);not null"`
	PaidAt          *time.Time
	LastLat         *float64
	LastLng         *float64
	LastLocationAt  *time.Time
	Rating          *int
	CreatedAt       time.Time `gorm:"not null;index"`
	UpdatedAt       time.Time `gorm:"not null"`
	ConfirmedAt     *time.Time
	PreparingAt     *time.Time
	ReadyAt         *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	Items           []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line item. Position keeps the order the customer entered them in.
type OrderItemDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"primaryKey"`
	MenuItemID string    `gorm:"type:varchar(64);not null"`
	Quantity   int       `gorm:"not null"`
	UnitPrice  int64     `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// TrackingEntryDTO is one customer-facing tracking record. Seq breaks ties between
// entries written within the same instant.
type TrackingEntryDTO struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement"`
	ID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_tracking_order_time,priority:1"`
	Status    string    `gorm:"type:varchar(32);not null"`
	Lat       *float64
	Lng       *float64
	Note      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index:idx_tracking_order_time,priority:2"`
}

func (TrackingEntryDTO) TableName() string {
	return "tracking_entries"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()
	quote := o.Quote()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:    id,
			Position:   i,
			MenuItemID: item.MenuItemID(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Int64(),
		})
	}

	dto := OrderDTO{
		ID:              id,
		Number:          o.Number(),
		CustomerID:      o.CustomerID().Bytes(),
		CourierID:       uuidPtr(o.Courier()),
		Status:          o.Status().String(),
		Subtotal:        quote.Subtotal.Int64(),
		DeliveryFee:     quote.DeliveryFee.Int64(),
		Tax:             quote.Tax.Int64(),
		Total:           quote.Total.Int64(),
		DeliveryAddress: o.DeliveryAddress(),
		Contact:         o.Contact(),
		PaymentMethod:   string(o.PaymentMethod()),
		PaymentStatus:   string(o.PaymentStatus()),
		PaidAt:          o.PaidAt(),
		LastLocationAt:  o.LastLocationAt(),
		Rating:          o.Rating(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		ConfirmedAt:     o.ConfirmedAt(),
		PreparingAt:     o.PreparingAt(),
		ReadyAt:         o.ReadyAt(),
		PickedUpAt:      o.PickedUpAt(),
		DeliveredAt:     o.DeliveredAt(),
		CancelledAt:     o.CancelledAt(),
		Items:           items,
	}
	if loc := o.LastLocation(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.LastLat, dto.LastLng = &lat, &lng
	}
	return dto
}

// mutableColumns lists every column an update may touch. Identity, number, customer,
// items and creation time never change after Add.
func mutableColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"courier_id":       dto.CourierID,
		"status":           dto.Status,
		"payment_status":   dto.PaymentStatus,
		"paid_at":          dto.PaidAt,
		"last_lat":         dto.LastLat,
		"last_lng":         dto.LastLng,
		"last_location_at": dto.LastLocationAt,
		"rating":           dto.Rating,
		"updated_at":       dto.UpdatedAt,
		"confirmed_at":     dto.ConfirmedAt,
		"preparing_at":     dto.PreparingAt,
		"ready_at":         dto.ReadyAt,
		"picked_up_at":     dto.PickedUpAt,
		"delivered_at":     dto.DeliveredAt,
		"cancelled_at":     dto.CancelledAt,
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernelPtr(dto.CourierID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	method, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	location, err := geoPtr(dto.LastLat, dto.LastLng)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewLineItem(itemDTO.MenuItemID, itemDTO.Quantity, kernel.Money(itemDTO.UnitPrice))
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.State{
		ID:         id,
		Number:     dto.Number,
		CustomerID: customerID,
		CourierID:  courierID,
		Status:     status,
		Items:      items,
		Quote: order.Quote{
			Subtotal:    kernel.Money(dto.Subtotal),
			DeliveryFee: kernel.Money(dto.DeliveryFee),
			Tax:         kernel.Money(dto.Tax),
			Total:       kernel.Money(dto.Total),
		},
		DeliveryAddress: dto.DeliveryAddress,
		Contact:         dto.Contact,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		PaidAt:          utcPtr(dto.PaidAt),
		LastLocation:    location,
		LastLocationAt:  utcPtr(dto.LastLocationAt),
		Rating:          dto.Rating,
		CreatedAt:       dto.CreatedAt.UTC(),
		UpdatedAt:       dto.UpdatedAt.UTC(),
		ConfirmedAt:     utcPtr(dto.ConfirmedAt),
		PreparingAt:     utcPtr(dto.PreparingAt),
		ReadyAt:         utcPtr(dto.ReadyAt),
		PickedUpAt:      utcPtr(dto.PickedUpAt),
		DeliveredAt:     utcPtr(dto.DeliveredAt),
		CancelledAt:     utcPtr(dto.CancelledAt),
	})
}

func trackingFromDomain(e order.TrackingEntry) TrackingEntryDTO {
	dto := TrackingEntryDTO{
		ID:        e.ID.Bytes(),
		OrderID:   e.OrderID.Bytes(),
		Status:    e.Status.String(),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
	if e.Location != nil {
		lat, lng := e.Location.Lat(), e.Location.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func trackingToDomain(dto TrackingEntryDTO) (order.TrackingEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.TrackingEntry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.TrackingEntry{}, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.TrackingEntry{}, err
	}
	location, err := geoPtr(dto.Lat, dto.Lng)
	if err != nil {
		return order.TrackingEntry{}, err
	}
	return order.TrackingEntry{
		ID:        id,
		OrderID:   orderID,
		Status:    status,
		Location:  location,
		Note:      dto.Note,
		CreatedAt: dto.CreatedAt.UTC(),
	}, nil
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelPtr(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func geoPtr(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
