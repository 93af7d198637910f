package commands

import (
	"context"

	"orderhub/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels orders through the regular transition path, so a
// cancellation is recorded exactly like any other status change.
type CancelOrderCommandHandler struct {
	transitions TransitionOrderCommandHandler
}

func NewCancelOrderCommandHandler(transitions TransitionOrderCommandHandler) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{transitions: transitions}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	reason := command.Reason()
	if reason == "" {
		reason = "order cancelled"
	}
	transition, err := NewTransitionOrderCommand(command.OrderID(), order.Cancelled.String(), command.ActorID(), reason)
	if err != nil {
		return nil, err
	}
	return h.transitions.Handle(ctx, transition)
}
