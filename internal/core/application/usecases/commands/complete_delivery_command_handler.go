package commands

import (
	"context"
	"log/slog"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// CompleteDeliveryCommandHandler marks an order Delivered and credits the courier
// (one more delivery, one more successful delivery, plus the order's delivery fee)
// in the same unit of work.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	resolver   PermissionResolver
	notifier   ports.Notifier
	clock      ports.Clock
	metrics    ports.Metrics
	logger     *slog.Logger
}

func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	resolver PermissionResolver,
	notifier ports.Notifier,
	clock ports.Clock,
	metrics ports.Metrics,
	logger *slog.Logger,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		notifier:   notifier,
		clock:      clock,
		metrics:    metrics,
		logger:     logger.With("component", "complete-delivery"),
	}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, command CompleteDeliveryCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	if _, err := requireCapability(ctx, h.resolver, command.CourierID(), access.CapDeliveryComplete, now); err != nil {
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
	o, err := orders.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	observed := o.Status()
	entry, err := o.CompleteDelivery(command.CourierID(), now)
	if err != nil {
		return nil, err
	}
	if err = bookDelivery(ctx, uow.CourierRepository(), o); err != nil {
		return nil, err
	}
	if err = orders.Update(ctx, o, observed); err != nil {
		return nil, err
	}
	if err = uow.TrackingRepository().Append(ctx, entry); err != nil {
		return nil, err
	}
	courierID := command.CourierID()
	if err = record(ctx, uow.ActivityRepository(), &courierID, activity.ActionDeliveryCompleted,
		activity.EntityOrder, o.ID().String(), activity.Details{"fee": o.DeliveryFee().Int64()}, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.OrderTransitioned(observed.String(), o.Status().String())
	notify(ctx, h.notifier, h.logger, o.Contact(), ports.EventOrderDelivered, map[string]any{
		"orderId": o.ID().String(),
		"number":  o.Number(),
	})

	return o, nil
}
