package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrUpdateLocationCommandIsNotConstructed = errors.New(
	"UpdateLocationCommand must be created via NewUpdateLocationCommand constructor",
)

// UpdateLocationCommand reports a courier position. WithTracking additionally writes a
// TrackingEntry on every order the courier is carrying.
type UpdateLocationCommand struct {
	courierID    kernel.UUID
	point        kernel.GeoPoint
	withTracking bool

	guard guard.ConstructorGuard
}

func NewUpdateLocationCommand(courierID kernel.UUID, lat, lng float64, withTracking bool) (UpdateLocationCommand, error) {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err = errors.Join(courierID.Validate(), err); err != nil {
		return UpdateLocationCommand{}, err
	}
	return UpdateLocationCommand{
		courierID:    courierID,
		point:        point,
		withTracking: withTracking,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c UpdateLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

func (c UpdateLocationCommand) WithTracking() bool {
	return c.withTracking
}

func (c UpdateLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLocationCommandIsNotConstructed)
}
