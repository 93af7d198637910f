package commands

import (
	"context"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// RateDeliveryCommandHandler stores a rating on the order and folds it into the courier's
// running average. The courier row is locked while its average is recomputed.
type RateDeliveryCommandHandler struct {
	uowFactory UoWFactory
	resolver   PermissionResolver
	clock      ports.Clock
}

func NewRateDeliveryCommandHandler(uowFactory UoWFactory, resolver PermissionResolver, clock ports.Clock) RateDeliveryCommandHandler {
	return RateDeliveryCommandHandler{uowFactory: uowFactory, resolver: resolver, clock: clock}
}

func (h RateDeliveryCommandHandler) Handle(ctx context.Context, command RateDeliveryCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	if _, err := requireCapability(ctx, h.resolver, command.CustomerID(), access.CapDeliveryRate, now); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	o, err := orders.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	observed := o.Status()
	if err = o.Rate(command.CustomerID(), command.Rating()); err != nil {
		return nil, err
	}

	couriers := uow.CourierRepository()
	c, err := couriers.GetForUpdate(ctx, *o.Courier())
	if err != nil {
		return nil, err
	}
	if err = c.ApplyRating(command.Rating()); err != nil {
		return nil, err
	}
	if err = couriers.Update(ctx, c); err != nil {
		return nil, err
	}
	if err = orders.Update(ctx, o, observed); err != nil {
		return nil, err
	}

	customerID := command.CustomerID()
	if err = record(ctx, uow.ActivityRepository(), &customerID, activity.ActionDeliveryRated, activity.EntityOrder,
		o.ID().String(), activity.Details{
			"rating":        command.Rating(),
			"courierId":     c.ID().String(),
			"courierRating": c.Rating(),
		}, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
