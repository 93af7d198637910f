package orderrepo

import (
	"context"
	"errors"

	"orderhub/internal/adapters/out/postgres/dberr"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order together with its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap(err, "insert order")
	}
	return nil
}

// Update writes the mutable columns of the order, conditional on its stored status
// still being observed.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, observed order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, observed.String()).
		Updates(mutableColumns(dto))
	if result.Error != nil {
		return dberr.Wrap(result.Error, "update order")
	}

	if result.RowsAffected == 0 {
		return r.missingOrConflict(ctx, aggregate.ID(), observed)
	}
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order by ID holding a row lock until the transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// ListByStatus retrieves up to limit orders in status, oldest first.
func (r *GormOrderRepository) ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("status = ?", status.String()).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap(err, "list orders by status")
	}
	return toDomainList(dtos)
}

// ListOutForDeliveryByCourier retrieves the orders the courier is carrying right now.
func (r *GormOrderRepository) ListOutForDeliveryByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("courier_id = ? AND status = ?", courierID.Bytes(), order.OutForDelivery.String()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap(err, "list orders by courier")
	}
	return toDomainList(dtos)
}

// ReleaseReservations clears the courier of orders reserved for it that are still
// Confirmed, Preparing or Ready.
func (r *GormOrderRepository) ReleaseReservations(ctx context.Context, courierID kernel.UUID) ([]kernel.UUID, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var released []OrderDTO
	result := r.db.WithContext(ctx).
		Model(&released).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("courier_id = ? AND status IN ?", courierID.Bytes(), []string{
			order.Confirmed.String(), order.Preparing.String(), order.Ready.String(),
		}).
		Update("courier_id", nil)
	if result.Error != nil {
		return nil, dberr.Wrap(result.Error, "release courier reservations")
	}

	ids := make([]kernel.UUID, 0, len(released))
	for _, dto := range released {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *GormOrderRepository) get(tx *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := tx.Preload("Items", orderedItems).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, dberr.Wrap(err, "get order")
	}
	return toDomain(dto)
}

// missingOrConflict explains why a guarded update matched no row.
func (r *GormOrderRepository) missingOrConflict(ctx context.Context, id kernel.UUID, observed order.Status) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return dberr.Wrap(err, "check order")
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewStateConflictError("order", "is no longer "+observed.String())
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// GormTrackingRepository implements ports.TrackingRepository. It only appends.
type GormTrackingRepository struct {
	db *gorm.DB
}

func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

func (r *GormTrackingRepository) Append(ctx context.Context, entry order.TrackingEntry) error {
	dto := trackingFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap(err, "append tracking entry")
	}
	return nil
}

func (r *GormTrackingRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.TrackingEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TrackingEntryDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, seq").
		Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap(err, "list tracking entries")
	}

	entries := make([]order.TrackingEntry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := trackingToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
