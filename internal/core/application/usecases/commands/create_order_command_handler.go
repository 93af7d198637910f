package commands

import (
	"context"
	"log/slog"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// CreateOrderCommandHandler places orders. Every unit price is looked up in the catalog
// at call time; the order, its first TrackingEntry and its ledger entry commit together.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, resolver, catalog, notifier, clock, policy, logger)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrItemUnavailable) {
//	    // tell the customer which item is gone
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	resolver   PermissionResolver
	catalog    ports.Catalog
	notifier   ports.Notifier
	clock      ports.Clock
	policy     order.PricingPolicy
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	resolver PermissionResolver,
	catalog ports.Catalog,
	notifier ports.Notifier,
	clock ports.Clock,
	policy order.PricingPolicy,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		catalog:    catalog,
		notifier:   notifier,
		clock:      clock,
		policy:     policy,
		logger:     logger.With("component", "create-order"),
	}
}

// Handle authorizes the customer, prices the items and persists the order.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	if _, err := requireCapability(ctx, h.resolver, command.CustomerID(), access.CapOrderCreate, now); err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(command.Items()))
	for _, in := range command.Items() {
		price, err := h.catalog.GetItemPrice(ctx, in.MenuItemID)
		if err != nil {
			return nil, err
		}
		li, err := order.NewLineItem(in.MenuItemID, in.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}

	o, entry, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(now),
		command.CustomerID(),
		items,
		command.DeliveryAddress(),
		command.Contact(),
		command.PaymentMethod(),
		h.policy,
		now,
	)
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

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.TrackingRepository().Append(ctx, entry); err != nil {
		return nil, err
	}
	customerID := command.CustomerID()
	if err = record(ctx, uow.ActivityRepository(), &customerID, activity.ActionOrderCreated,
		activity.EntityOrder, o.ID().String(), activity.Details{
			"number":   o.Number(),
			"subtotal": o.Quote().Subtotal.Int64(),
			"total":    o.Total().Int64(),
			"items":    len(items),
		}, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notify(ctx, h.notifier, h.logger, o.Contact(), ports.EventOrderPlaced, map[string]any{
		"orderId": o.ID().String(),
		"number":  o.Number(),
		"total":   o.Total().String(),
	})

	return o, nil
}
