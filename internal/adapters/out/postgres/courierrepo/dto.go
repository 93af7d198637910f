// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"time"

	"orderhub/internal/core/domain/model/courier"
	"orderhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// ID is the identifier of the actor holding the courier role.
type CourierDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                 string    `gorm:"type:varchar(255);not null"`
	Rating               float64   `gorm:"not null"`
	TotalDeliveries      int       `gorm:"not null;default:0"`
	SuccessfulDeliveries int       `gorm:"not null;default:0"`
	TotalEarnings        int64     `gorm:"not null;default:0"`
	Lat                  *float64
	Lng                  *float64
	LocationUpdatedAt    *time.Time
	Version              int64     `gorm:"not null;default:0"`
	CreatedAt            time.Time `gorm:"not null"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// candidateRow is a courier joined with the count of orders it is carrying.
type candidateRow struct {
	CourierDTO
	ActiveDeliveries int
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(c *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:                   c.ID().Bytes(),
		Name:                 c.Name(),
		Rating:               c.Rating(),
		TotalDeliveries:      c.TotalDeliveries(),
		SuccessfulDeliveries: c.SuccessfulDeliveries(),
		TotalEarnings:        c.TotalEarnings().Int64(),
		LocationUpdatedAt:    c.LocationUpdatedAt(),
		Version:              c.Version(),
		CreatedAt:            c.CreatedAt(),
	}
	if loc := c.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

// toDomain converts a database DTO to a courier domain aggregate using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		p, locErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if locErr != nil {
			return nil, locErr
		}
		location = &p
	}

	var updatedAt *time.Time
	if dto.LocationUpdatedAt != nil {
		u := dto.LocationUpdatedAt.UTC()
		updatedAt = &u
	}

	return courier.RestoreCourier(courier.State{
		ID:                   id,
		Name:                 dto.Name,
		Rating:               dto.Rating,
		TotalDeliveries:      dto.TotalDeliveries,
		SuccessfulDeliveries: dto.SuccessfulDeliveries,
		TotalEarnings:        kernel.Money(dto.TotalEarnings),
		Location:             location,
		LocationUpdatedAt:    updatedAt,
		Version:              dto.Version,
		CreatedAt:            dto.CreatedAt.UTC(),
	})
}
