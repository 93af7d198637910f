package order

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
)

// TrackingEntry records one status change (or one explicitly requested location ping)
// of an order. Entries are append-only and read back in CreatedAt order.
type TrackingEntry struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Status    Status
	Location  *kernel.GeoPoint
	Note      string
	CreatedAt time.Time
}

func newTrackingEntry(orderID kernel.UUID, status Status, location *kernel.GeoPoint, note string, at time.Time) TrackingEntry {
	return TrackingEntry{
		ID:        kernel.NewUUID(),
		OrderID:   orderID,
		Status:    status,
		Location:  location,
		Note:      note,
		CreatedAt: at,
	}
}
