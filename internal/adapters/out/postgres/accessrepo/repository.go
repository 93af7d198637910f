package accessrepo

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/adapters/out/postgres/dberr"
	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormActorRepository implements ports.ActorRepository using GORM.
type GormActorRepository struct {
	db *gorm.DB
}

func NewGormActorRepository(db *gorm.DB) *GormActorRepository {
	return &GormActorRepository{db: db}
}

// Add saves a new actor. A taken email or phone is reported as a StateConflictError.
func (r *GormActorRepository) Add(ctx context.Context, aggregate *access.Actor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := actorFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return errs.NewStateConflictError("actor", "email or phone is already registered")
		}
		return dberr.Wrap(err, "insert actor")
	}
	return nil
}

// Update writes every mutable attribute of the actor.
func (r *GormActorRepository) Update(ctx context.Context, aggregate *access.Actor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := actorFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ActorDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":                  dto.Name,
			"credential_hash":       dto.CredentialHash,
			"active":                dto.Active,
			"failed_attempts":       dto.FailedAttempts,
			"locked_until":          dto.LockedUntil,
			"last_authenticated_at": dto.LastAuthenticatedAt,
			"role":                  dto.Role,
		})
	if result.Error != nil {
		return dberr.Wrap(result.Error, "update actor")
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("actor", aggregate.ID().String())
	}
	return nil
}

func (r *GormActorRepository) Get(ctx context.Context, id kernel.UUID) (*access.Actor, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), id.String(), "id = ?", id.Bytes())
}

func (r *GormActorRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*access.Actor, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id.String(), "id = ?", id.Bytes())
}

// FindByIdentifierForUpdate locks the actor whose email or phone equals identifier.
func (r *GormActorRepository) FindByIdentifierForUpdate(ctx context.Context, identifier string) (*access.Actor, error) {
	if identifier == "" {
		return nil, errs.NewValueIsRequiredError("identifier")
	}
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), identifier,
		"email = ? OR phone = ?", identifier, identifier)
}

// LockRole takes a transaction-scoped advisory lock named after the role. Two units of
// work changing the membership of the same role therefore run one after the other.
func (r *GormActorRepository) LockRole(ctx context.Context, role access.RoleName) error {
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "role:"+string(role)).Error; err != nil {
		return dberr.Wrap(err, "lock role")
	}
	return nil
}

func (r *GormActorRepository) CountActiveWithRole(ctx context.Context, role access.RoleName) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ActorDTO{}).
		Where("role = ? AND active", string(role)).
		Count(&count).Error; err != nil {
		return 0, dberr.Wrap(err, "count actors with role")
	}
	return int(count), nil
}

func (r *GormActorRepository) first(tx *gorm.DB, key string, query string, args ...any) (*access.Actor, error) {
	var dto ActorDTO
	if err := tx.Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("actor", key)
		}
		return nil, dberr.Wrap(err, "get actor")
	}
	return actorToDomain(dto)
}

// GormRoleRepository implements ports.RoleRepository using GORM.
type GormRoleRepository struct {
	db *gorm.DB
}

func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Catalog loads every role.
func (r *GormRoleRepository) Catalog(ctx context.Context) (access.RoleCatalog, error) {
	var dtos []RoleDTO
	if err := r.db.WithContext(ctx).Order("tier").Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap(err, "load role catalog")
	}

	roles := make([]access.Role, 0, len(dtos))
	for _, dto := range dtos {
		role, err := roleToDomain(dto)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return access.NewRoleCatalog(roles...), nil
}

// Upsert inserts the role or replaces its capabilities, cap and tier.
func (r *GormRoleRepository) Upsert(ctx context.Context, role access.Role) error {
	dto := roleFromDomain(role)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"capabilities", "max_members", "tier"}),
	}).Create(&dto).Error; err != nil {
		return dberr.Wrap(err, "upsert role")
	}
	return nil
}

// GormGrantRepository implements ports.GrantRepository using GORM.
type GormGrantRepository struct {
	db *gorm.DB
}

func NewGormGrantRepository(db *gorm.DB) *GormGrantRepository {
	return &GormGrantRepository{db: db}
}

func (r *GormGrantRepository) Add(ctx context.Context, grant access.Grant) error {
	dto := grantFromDomain(grant)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap(err, "insert grant")
	}
	return nil
}

// ListActive returns the grants of actorID expiring after now.
func (r *GormGrantRepository) ListActive(ctx context.Context, actorID kernel.UUID, now time.Time) ([]access.Grant, error) {
	if err := actorID.Validate(); err != nil {
		return nil, err
	}

	var dtos []GrantDTO
	if err := r.db.WithContext(ctx).
		Where("actor_id = ? AND expires_at > ?", actorID.Bytes(), now).
		Order("expires_at").
		Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap(err, "list grants")
	}

	grants := make([]access.Grant, 0, len(dtos))
	for _, dto := range dtos {
		g, err := grantToDomain(dto)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, nil
}
