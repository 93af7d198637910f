// Package postgres provides the GORM-based implementation of the Unit of Work pattern.
//
// Every repository handed out by a GormUnitOfWork is bound to the transaction opened by
// Begin, so a state change and the ledger entry recording it commit or roll back together.
//
// Basic Transaction Management:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//	if err := uow.ActivityRepository().Append(ctx, entry); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides an isolated transaction
//   - Multiple goroutines must use separate UnitOfWork instances
//   - Row locks and advisory locks taken by repositories are released on Commit or Rollback
package postgres

import (
	"context"

	"orderhub/internal/adapters/out/postgres/accessrepo"
	"orderhub/internal/adapters/out/postgres/activityrepo"
	"orderhub/internal/adapters/out/postgres/courierrepo"
	"orderhub/internal/adapters/out/postgres/dberr"
	"orderhub/internal/adapters/out/postgres/orderrepo"
	"orderhub/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction. Before Begin and after Commit or
// Rollback its repositories run against the plain connection.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return dberr.Wrap(tx.Error, "begin transaction")
	}
	uow.tx = tx
	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active. A serialization
// failure or deadlock detected at commit time is returned as a TransientError.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return dberr.Wrap(err, "commit transaction")
}

// Rollback discards all changes made within the current transaction. It is a no-op when
// no transaction is active, so it can always be deferred right after Begin.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) TrackingRepository() ports.TrackingRepository {
	return orderrepo.NewGormTrackingRepository(uow.conn())
}

func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	return courierrepo.NewGormCourierRepository(uow.conn())
}

func (uow *GormUnitOfWork) ActorRepository() ports.ActorRepository {
	return accessrepo.NewGormActorRepository(uow.conn())
}

func (uow *GormUnitOfWork) RoleRepository() ports.RoleRepository {
	return accessrepo.NewGormRoleRepository(uow.conn())
}

func (uow *GormUnitOfWork) GrantRepository() ports.GrantRepository {
	return accessrepo.NewGormGrantRepository(uow.conn())
}

func (uow *GormUnitOfWork) ActivityRepository() ports.ActivityRepository {
	return activityrepo.NewGormActivityRepository(uow.conn())
}

// conn returns the active transaction, or the plain connection outside of one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
