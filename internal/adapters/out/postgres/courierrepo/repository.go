package courierrepo

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/adapters/out/postgres/dberr"
	"orderhub/internal/core/domain/model/courier"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eligibleActor keeps couriers whose actor is active, still a courier and not locked at ?.
const eligibleActor = "a.active AND a.role = 'courier' AND (a.locked_until IS NULL OR a.locked_until <= ?)"

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return errs.NewStateConflictError("courier", "is already registered")
		}
		return dberr.Wrap(err, "insert courier")
	}
	return nil
}

// Update saves statistics and position and bumps the version, so any reservation
// planned against the previous version fails.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":                  dto.Name,
			"rating":                dto.Rating,
			"total_deliveries":      dto.TotalDeliveries,
			"successful_deliveries": dto.SuccessfulDeliveries,
			"total_earnings":        dto.TotalEarnings,
			"lat":                   dto.Lat,
			"lng":                   dto.Lng,
			"location_updated_at":   dto.LocationUpdatedAt,
			"version":               gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return dberr.Wrap(result.Error, "update courier")
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves a courier by ID holding a row lock until the transaction ends.
func (r *GormCourierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// Reserve bumps the courier's version only if it still equals observed.
func (r *GormCourierRepository) Reserve(ctx context.Context, id kernel.UUID, observed int64) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND version = ?", id.Bytes(), observed).
		Update("version", gorm.Expr("version + 1"))
	if result.Error != nil {
		return dberr.Wrap(result.Error, "reserve courier")
	}

	if result.RowsAffected == 0 {
		return errs.NewStateConflictError("courier", "was reserved concurrently")
	}
	return nil
}

// ListCandidates returns every courier whose actor is active, still holds the courier
// role and is not locked out at now, with its count of orders out for delivery.
//
// Example:
//
//	candidates, err := repo.ListCandidates(ctx, time.Now())
//	if err != nil {
//		return fmt.Errorf("failed to list candidates: %w", err)
//	}
//	for _, c := range candidates {
//		fmt.Printf("%s carries %d orders\n", c.Courier.Name(), c.ActiveDeliveries)
//	}
func (r *GormCourierRepository) ListCandidates(ctx context.Context, now time.Time) ([]courier.Candidate, error) {
	var rows []candidateRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.*,
			(
				SELECT count(*)
				FROM orders o
				WHERE o.courier_id = c.id AND o.status = ?
			) AS active_deliveries
		FROM couriers c
		JOIN actors a ON a.id = c.id
		WHERE `+eligibleActor, order.OutForDelivery.String(), now).Scan(&rows).Error; err != nil {
		return nil, dberr.Wrap(err, "list courier candidates")
	}

	candidates := make([]courier.Candidate, 0, len(rows))
	for _, row := range rows {
		c, err := toDomain(row.CourierDTO)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, courier.Candidate{Courier: c, ActiveDeliveries: row.ActiveDeliveries})
	}
	return candidates, nil
}

// IsEligible applies the ListCandidates conditions to a single courier.
func (r *GormCourierRepository) IsEligible(ctx context.Context, id kernel.UUID, now time.Time) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Table("couriers AS c").
		Joins("JOIN actors a ON a.id = c.id").
		Where("c.id = ?", id.Bytes()).
		Where(eligibleActor, now).
		Count(&count).Error; err != nil {
		return false, dberr.Wrap(err, "check courier eligibility")
	}
	return count > 0, nil
}

func (r *GormCourierRepository) get(tx *gorm.DB, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := tx.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, dberr.Wrap(err, "get courier")
	}
	return toDomain(dto)
}
