package activityrepo

import (
	"context"

	"orderhub/internal/adapters/out/postgres/dberr"
	"orderhub/internal/core/domain/model/activity"

	"gorm.io/gorm"
)

// GormActivityRepository implements ports.ActivityRepository. Rows are only ever inserted.
type GormActivityRepository struct {
	db *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Append writes the entry in the caller's transaction.
func (r *GormActivityRepository) Append(ctx context.Context, entry activity.Entry) error {
	dto, err := fromDomain(entry)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap(err, "append activity entry")
	}
	return nil
}

// Query returns entries matching filter, newest first.
func (r *GormActivityRepository) Query(ctx context.Context, filter activity.Filter) ([]activity.Entry, error) {
	filter, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).Model(&EntryDTO{})
	if filter.ActorID != nil {
		tx = tx.Where("actor_id = ?", filter.ActorID.Bytes())
	}
	if filter.Action != "" {
		tx = tx.Where("action = ?", string(filter.Action))
	}
	if filter.EntityType != "" {
		tx = tx.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		tx = tx.Where("entity_id = ?", filter.EntityID)
	}
	if filter.From != nil {
		tx = tx.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		tx = tx.Where("created_at < ?", *filter.To)
	}

	var dtos []EntryDTO
	if err = tx.Order("created_at DESC, seq DESC").Limit(filter.Limit).Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap(err, "query activity log")
	}

	entries := make([]activity.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		entries = append(entries, e)
	}
	return entries, nil
}
