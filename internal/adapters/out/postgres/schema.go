package postgres

import (
	"orderhub/internal/adapters/out/postgres/accessrepo"
	"orderhub/internal/adapters/out/postgres/activityrepo"
	"orderhub/internal/adapters/out/postgres/courierrepo"
	"orderhub/internal/adapters/out/postgres/dberr"
	"orderhub/internal/adapters/out/postgres/menurepo"
	"orderhub/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&accessrepo.RoleDTO{},
		&accessrepo.ActorDTO{},
		&accessrepo.GrantDTO{},
		&courierrepo.CourierDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.TrackingEntryDTO{},
		&activityrepo.EntryDTO{},
		&menurepo.MenuItemDTO{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return dberr.Wrap(db.AutoMigrate(Models()...), "migrate schema")
}
