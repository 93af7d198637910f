// Package menurepo is the read model of the menu service. It backs the Catalog
// collaborator the order use cases price line items with.
package menurepo

import (
	"context"
	"errors"

	"orderhub/internal/adapters/out/postgres/dberr"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MenuItemDTO is one sellable menu item. Price is in minor currency units.
type MenuItemDTO struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	Name      string `gorm:"type:varchar(255);not null"`
	Price     int64  `gorm:"not null"`
	Available bool   `gorm:"not null;default:true"`
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

// GormCatalog implements ports.Catalog.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// GetItemPrice returns the current price of an available item.
func (c *GormCatalog) GetItemPrice(ctx context.Context, itemID string) (kernel.Money, error) {
	var dto MenuItemDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.NewItemUnavailableError(itemID)
		}
		return 0, dberr.Wrap(err, "get menu item")
	}
	if !dto.Available {
		return 0, errs.NewItemUnavailableError(itemID)
	}
	return kernel.NewMoney(dto.Price)
}

// Upsert inserts or replaces a menu item.
func (c *GormCatalog) Upsert(ctx context.Context, item MenuItemDTO) error {
	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&item).Error; err != nil {
		return dberr.Wrap(err, "upsert menu item")
	}
	return nil
}
