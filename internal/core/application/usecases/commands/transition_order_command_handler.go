package commands

import (
	"context"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// TransitionOrderCommandHandler applies staff-driven status changes.
//
// The phase timestamp, the new status, the TrackingEntry and the ledger entry are
// committed together. The order write is conditional on the status read at the start,
// so a concurrent writer makes this call fail with a StateConflictError instead of
// overwriting its change. There is no automatic retry.
//
// Moving an order to Delivered this way also books the delivery on the assigned courier,
// exactly as CompleteDeliveryCommandHandler does.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	resolver   PermissionResolver
	notifier   ports.Notifier
	clock      ports.Clock
	metrics    ports.Metrics
	rules      services.AccessRules
	logger     *slog.Logger
}

func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	resolver PermissionResolver,
	notifier ports.Notifier,
	clock ports.Clock,
	metrics ports.Metrics,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		notifier:   notifier,
		clock:      clock,
		metrics:    metrics,
		rules:      services.NewAccessRules(),
		logger:     logger.With("component", "transition-order"),
	}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, command TransitionOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	capability, err := h.rules.TransitionCapability(command.Target())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
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

	if err = h.authorize(ctx, command, capability, o, now); err != nil {
		return nil, err
	}

	observed := o.Status()
	var entry order.TrackingEntry
	if command.Target() == order.Cancelled {
		entry, err = o.Cancel(command.Notes(), now)
	} else {
		entry, err = o.Transition(command.Target(), command.Notes(), now)
	}
	if err != nil {
		return nil, err
	}

	if command.Target() == order.Delivered {
		if err = bookDelivery(ctx, uow.CourierRepository(), o); err != nil {
			return nil, err
		}
	}

	if err = orders.Update(ctx, o, observed); err != nil {
		return nil, err
	}
	if err = uow.TrackingRepository().Append(ctx, entry); err != nil {
		return nil, err
	}

	action := activity.ActionOrderTransitioned
	if command.Target() == order.Cancelled {
		action = activity.ActionOrderCancelled
	}
	actorID := command.ActorID()
	if err = record(ctx, uow.ActivityRepository(), &actorID, action, activity.EntityOrder, o.ID().String(),
		activity.Details{"from": observed.String(), "to": o.Status().String(), "notes": command.Notes()}, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.OrderTransitioned(observed.String(), o.Status().String())
	notify(ctx, h.notifier, h.logger, o.Contact(), ports.EventOrderStatus, map[string]any{
		"orderId": o.ID().String(),
		"number":  o.Number(),
		"status":  o.Status().String(),
	})

	return o, nil
}

// authorize checks the edge capability. Cancellation is also open to the order's owner.
func (h TransitionOrderCommandHandler) authorize(
	ctx context.Context,
	command TransitionOrderCommand,
	capability access.Capability,
	o *order.Order,
	now time.Time,
) error {
	if command.Target() != order.Cancelled {
		_, err := requireCapability(ctx, h.resolver, command.ActorID(), capability, now)
		return err
	}

	p, err := resolveRequester(ctx, h.resolver, command.ActorID(), capability)
	if err != nil {
		return err
	}
	if !h.rules.CanCancel(p, o, command.ActorID(), now) {
		return errs.NewPermissionDeniedError(string(capability))
	}
	return nil
}

// bookDelivery credits the assigned courier for a delivered order. The courier row is
// locked so concurrent completions of its other orders never lose an increment.
func bookDelivery(ctx context.Context, couriers ports.CourierRepository, o *order.Order) error {
	c, err := couriers.GetForUpdate(ctx, *o.Courier())
	if err != nil {
		return err
	}
	if err = c.RecordDelivery(o.DeliveryFee()); err != nil {
		return err
	}
	return couriers.Update(ctx, c)
}
