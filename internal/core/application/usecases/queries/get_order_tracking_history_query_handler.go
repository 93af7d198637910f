package queries

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTrackingHistoryQueryHandler reads tracking entries with a direct SQL query.
type GetOrderTrackingHistoryQueryHandler struct {
	db       *gorm.DB
	resolver PermissionResolver
	clock    ports.Clock
}

func NewGetOrderTrackingHistoryQueryHandler(
	db *gorm.DB,
	resolver PermissionResolver,
	clock ports.Clock,
) GetOrderTrackingHistoryQueryHandler {
	return GetOrderTrackingHistoryQueryHandler{db: db, resolver: resolver, clock: clock}
}

// Handle returns the history ordered by timestamp, ties broken by insertion order.
func (h GetOrderTrackingHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingHistoryQuery,
) ([]GetOrderTrackingHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := checkOrderVisible(ctx, h.db, h.resolver, query.OrderID(), query.RequestedBy(), h.clock.Now()); err != nil {
		return nil, err
	}

	var rows []struct {
		ID        uuid.UUID
		Status    string
		Lat       *float64
		Lng       *float64
		Note      string
		CreatedAt time.Time
	}
	if err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			lat,
			lng,
			note,
			created_at
		FROM tracking_entries
		WHERE order_id = ?
		ORDER BY created_at, seq
	`, query.OrderID().Bytes()).Scan(&rows).Error; err != nil {
		return nil, err
	}

	history := make([]GetOrderTrackingHistoryQueryResponse, 0, len(rows))
	for _, row := range rows {
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return nil, err
		}
		history = append(history, GetOrderTrackingHistoryQueryResponse{
			ID:        id,
			Status:    row.Status,
			Lat:       row.Lat,
			Lng:       row.Lng,
			Note:      row.Note,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return history, nil
}
