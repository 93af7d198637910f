package commands

import (
	"context"
	"log/slog"

	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// MarkPaymentCompletedCommandHandler consumes payment confirmations. Repeated confirmations
// for the same order are acknowledged without writing anything.
type MarkPaymentCompletedCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewMarkPaymentCompletedCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) MarkPaymentCompletedCommandHandler {
	return MarkPaymentCompletedCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger.With("component", "payment-feed"),
	}
}

func (h MarkPaymentCompletedCommandHandler) Handle(ctx context.Context, command MarkPaymentCompletedCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
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
	if !o.MarkPaid(now) {
		return o, nil
	}

	if err = orders.Update(ctx, o, o.Status()); err != nil {
		return nil, err
	}
	if err = record(ctx, uow.ActivityRepository(), nil, activity.ActionOrderPaymentCompleted, activity.EntityOrder,
		o.ID().String(), activity.Details{
			"reference": command.Reference(),
			"method":    string(o.PaymentMethod()),
			"amount":    o.Total().Int64(),
		}, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notify(ctx, h.notifier, h.logger, o.Contact(), ports.EventPaymentConfirmed, map[string]any{
		"orderId": o.ID().String(),
		"number":  o.Number(),
	})
	return o, nil
}
