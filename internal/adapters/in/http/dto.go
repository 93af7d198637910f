package http

import (
	"time"

	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/order"
)

type OrderItem struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
}

// Order is the wire form of an order. Amounts are minor currency units.
type Order struct {
	ID              string      `json:"id"`
	Number          string      `json:"number"`
	CustomerID      string      `json:"customerId"`
	CourierID       *string     `json:"courierId,omitempty"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	Subtotal        int64       `json:"subtotal"`
	DeliveryFee     int64       `json:"deliveryFee"`
	Tax             int64       `json:"tax"`
	Total           int64       `json:"total"`
	DeliveryAddress string      `json:"deliveryAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	PaymentStatus   string      `json:"paymentStatus"`
	PaidAt          *time.Time  `json:"paidAt,omitempty"`
	Rating          *int        `json:"rating,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	ConfirmedAt     *time.Time  `json:"confirmedAt,omitempty"`
	PreparingAt     *time.Time  `json:"preparingAt,omitempty"`
	ReadyAt         *time.Time  `json:"readyAt,omitempty"`
	PickedUpAt      *time.Time  `json:"pickedUpAt,omitempty"`
	DeliveredAt     *time.Time  `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time  `json:"cancelledAt,omitempty"`
}

func toOrder(o *order.Order) Order {
	q := o.Quote()
	out := Order{
		ID:              o.ID().String(),
		Number:          o.Number(),
		CustomerID:      o.CustomerID().String(),
		Status:          o.Status().String(),
		Subtotal:        q.Subtotal.Int64(),
		DeliveryFee:     q.DeliveryFee.Int64(),
		Tax:             q.Tax.Int64(),
		Total:           q.Total.Int64(),
		DeliveryAddress: o.DeliveryAddress(),
		PaymentMethod:   string(o.PaymentMethod()),
		PaymentStatus:   string(o.PaymentStatus()),
		PaidAt:          o.PaidAt(),
		Rating:          o.Rating(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		ConfirmedAt:     o.ConfirmedAt(),
		PreparingAt:     o.PreparingAt(),
		ReadyAt:         o.ReadyAt(),
		PickedUpAt:      o.PickedUpAt(),
		DeliveredAt:     o.DeliveredAt(),
		CancelledAt:     o.CancelledAt(),
	}
	if c := o.Courier(); c != nil {
		id := c.String()
		out.CourierID = &id
	}
	out.Items = make([]OrderItem, 0, len(o.Items()))
	for _, li := range o.Items() {
		out.Items = append(out.Items, OrderItem{
			MenuItemID: li.MenuItemID(),
			Quantity:   li.Quantity(),
			UnitPrice:  li.UnitPrice().Int64(),
		})
	}
	return out
}

func fromOrderView(v queries.GetOrderQueryResponse) Order {
	out := Order{
		ID:              v.ID.String(),
		Number:          v.Number,
		CustomerID:      v.CustomerID.String(),
		Status:          v.Status,
		Subtotal:        v.Subtotal,
		DeliveryFee:     v.DeliveryFee,
		Tax:             v.Tax,
		Total:           v.Total,
		DeliveryAddress: v.DeliveryAddress,
		PaymentMethod:   v.PaymentMethod,
		PaymentStatus:   v.PaymentStatus,
		PaidAt:          v.PaidAt,
		Rating:          v.Rating,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		ConfirmedAt:     v.ConfirmedAt,
		PreparingAt:     v.PreparingAt,
		ReadyAt:         v.ReadyAt,
		PickedUpAt:      v.PickedUpAt,
		DeliveredAt:     v.DeliveredAt,
		CancelledAt:     v.CancelledAt,
	}
	if v.CourierID != nil {
		id := v.CourierID.String()
		out.CourierID = &id
	}
	out.Items = make([]OrderItem, 0, len(v.Items))
	for _, it := range v.Items {
		out.Items = append(out.Items, OrderItem(it))
	}
	return out
}

type TrackingEntry struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Actor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Guest  bool   `json:"guest"`
	Active bool   `json:"active"`
}

func toActor(a *access.Actor) Actor {
	return Actor{
		ID:     a.ID().String(),
		Name:   a.Name(),
		Role:   string(a.Role()),
		Guest:  a.IsGuest(),
		Active: a.IsActive(),
	}
}

type Session struct {
	Token     string    `json:"token"`
	ActorID   string    `json:"actorId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Grant struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	Capability string    `json:"capability"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type ActivityEntry struct {
	ID         string               `json:"id"`
	ActorID    *string              `json:"actorId,omitempty"`
	Action     string               `json:"action"`
	EntityType string               `json:"entityType"`
	EntityID   string               `json:"entityId"`
	Details    activity.Details     `json:"details,omitempty"`
	Provenance *activity.Provenance `json:"provenance,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
}

func toActivityEntry(e activity.Entry) ActivityEntry {
	out := ActivityEntry{
		ID:         e.ID.String(),
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		Provenance: e.Provenance,
		CreatedAt:  e.CreatedAt,
	}
	if e.ActorID != nil {
		id := e.ActorID.String()
		out.ActorID = &id
	}
	return out
}
