package commands

import (
	"context"
	"errors"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// UpdateLocationCommandHandler stores the courier position and copies it onto every
// order the courier is currently carrying. One ledger entry is written per report,
// however many orders it touched.
type UpdateLocationCommandHandler struct {
	uowFactory UoWFactory
	resolver   PermissionResolver
	clock      ports.Clock
}

func NewUpdateLocationCommandHandler(uowFactory UoWFactory, resolver PermissionResolver, clock ports.Clock) UpdateLocationCommandHandler {
	return UpdateLocationCommandHandler{uowFactory: uowFactory, resolver: resolver, clock: clock}
}

// Handle returns the number of orders that received the new position.
func (h UpdateLocationCommandHandler) Handle(ctx context.Context, command UpdateLocationCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	now := h.clock.Now()
	if _, err := requireCapability(ctx, h.resolver, command.CourierID(), access.CapLocationUpdate, now); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers := uow.CourierRepository()
	c, err := couriers.GetForUpdate(ctx, command.CourierID())
	if err != nil {
		return 0, err
	}
	if err = c.MoveTo(command.Point(), now); err != nil {
		return 0, err
	}
	if err = couriers.Update(ctx, c); err != nil {
		return 0, err
	}

	orders := uow.OrderRepository()
	carrying, err := orders.ListOutForDeliveryByCourier(ctx, c.ID())
	if err != nil {
		return 0, err
	}

	touched := 0
	for _, o := range carrying {
		entry, locErr := o.UpdateLocation(command.Point(), command.WithTracking(), now)
		if locErr != nil {
			return 0, locErr
		}
		// An order delivered since it was listed keeps its final state.
		if err = orders.Update(ctx, o, order.OutForDelivery); errors.Is(err, errs.ErrStateConflict) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if entry != nil {
			if err = uow.TrackingRepository().Append(ctx, *entry); err != nil {
				return 0, err
			}
		}
		touched++
	}

	courierID := c.ID()
	if err = record(ctx, uow.ActivityRepository(), &courierID, activity.ActionCourierLocationUpdated,
		activity.EntityCourier, courierID.String(), activity.Details{
			"lat":          command.Point().Lat(),
			"lng":          command.Point().Lng(),
			"orders":       touched,
			"withTracking": command.WithTracking(),
		}, now); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return touched, nil
}
