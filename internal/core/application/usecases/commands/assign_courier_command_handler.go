package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// DefaultMaxAssignAttempts bounds how many ranked candidates one call tries.
const DefaultMaxAssignAttempts = 3

// Assignment outcomes reported to metrics.
const (
	AssignOutcomeDispatched = "dispatched"
	AssignOutcomeReserved   = "reserved"
	AssignOutcomeNoCourier  = "no_courier"
	AssignOutcomeConflict   = "conflict"
	AssignOutcomeError      = "error"
)

// errCourierTaken marks a lost race on the courier side; the next candidate is tried.
var errCourierTaken = errors.New("courier taken")

// AssignCourierCommandHandler matches an order with a courier.
//
// Candidates are ranked once. Each attempt then runs in its own unit of work holding two
// guards: the courier's version must still be the one seen when ranking, and the order's
// status must still be the one read inside the attempt. Losing the courier guard moves on
// to the next candidate; losing the order guard fails the call with a StateConflictError.
//
// A Ready order is handed over (OutForDelivery, pickedUpAt, TrackingEntry). A Confirmed
// order only gets the courier reserved; a later call on the Ready order dispatches the
// reserved courier without ranking again.
type AssignCourierCommandHandler struct {
	uowFactory  UoWFactory
	resolver    PermissionResolver
	notifier    ports.Notifier
	clock       ports.Clock
	metrics     ports.Metrics
	matcher     services.CourierMatcher
	maxAttempts int
	logger      *slog.Logger
}

func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	resolver PermissionResolver,
	notifier ports.Notifier,
	clock ports.Clock,
	metrics ports.Metrics,
	maxAttempts int,
	logger *slog.Logger,
) AssignCourierCommandHandler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAssignAttempts
	}
	return AssignCourierCommandHandler{
		uowFactory:  uowFactory,
		resolver:    resolver,
		notifier:    notifier,
		clock:       clock,
		metrics:     metrics,
		matcher:     services.NewCourierMatcher(),
		maxAttempts: maxAttempts,
		logger:      logger.With("component", "assign-courier"),
	}
}

func (h AssignCourierCommandHandler) Handle(ctx context.Context, command AssignCourierCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	if by := command.RequestedBy(); by != nil {
		if _, err := requireCapability(ctx, h.resolver, *by, access.CapDeliveryAssign, now); err != nil {
			return nil, err
		}
	}

	targets, err := h.plan(ctx, command, now)
	if err != nil {
		h.finish(err, 0)
		return nil, err
	}

	attempts := 0
	for _, target := range targets {
		if attempts == h.maxAttempts {
			break
		}
		attempts++

		o, assignment, attemptErr := h.attempt(ctx, command, target, now)
		if errors.Is(attemptErr, errCourierTaken) {
			h.logger.DebugContext(ctx, "courier taken, trying next candidate",
				"orderId", command.OrderID().String(), "courierId", target.id.String())
			continue
		}
		if attemptErr != nil {
			h.finish(attemptErr, attempts)
			return nil, attemptErr
		}

		h.finishAssigned(assignment, attempts)
		h.announce(ctx, o, assignment)
		return o, nil
	}

	err = errs.NewNoCourierAvailableError(attempts)
	h.finish(err, attempts)
	return nil, err
}

// assignTarget is one courier to try and the version it must still have.
type assignTarget struct {
	id      kernel.UUID
	version int64
}

// plan reads the order and decides which couriers to try, best first. A reservation
// held by a courier who is no longer eligible is released and committed before ranking.
func (h AssignCourierCommandHandler) plan(ctx context.Context, command AssignCourierCommand, now time.Time) ([]assignTarget, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers := uow.CourierRepository()
	o, err := uow.OrderRepository().GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	if reserved := o.Courier(); reserved != nil {
		switch o.Status() { //nolint:exhaustive // handled below
		case order.Confirmed:
			return nil, errs.NewStateConflictError("order", "already has a reserved courier")
		case order.Ready:
			eligible, eligibleErr := couriers.IsEligible(ctx, *reserved, now)
			if eligibleErr != nil {
				return nil, eligibleErr
			}
			if eligible {
				c, getErr := couriers.Get(ctx, *reserved)
				if getErr != nil {
					return nil, getErr
				}
				return []assignTarget{{id: c.ID(), version: c.Version()}}, nil
			}
			if err = h.release(ctx, uow, command, o, *reserved, now); err != nil {
				return nil, err
			}
		}
	}
	if o.Status() != order.Confirmed && o.Status() != order.Ready {
		return nil, errs.NewStateConflictError("order", "cannot be assigned in "+o.Status().String())
	}

	candidates, err := couriers.ListCandidates(ctx, now)
	if err != nil {
		return nil, err
	}
	ranked, err := h.matcher.Rank(candidates)
	if err != nil {
		return nil, err
	}

	targets := make([]assignTarget, 0, len(ranked))
	for _, c := range ranked {
		targets = append(targets, assignTarget{id: c.ID(), version: c.Version()})
	}
	return targets, nil
}

// release drops a reservation whose courier can no longer take the order and commits it.
func (h AssignCourierCommandHandler) release(
	ctx context.Context,
	uow UoW,
	command AssignCourierCommand,
	o *order.Order,
	courierID kernel.UUID,
	now time.Time,
) error {
	observed := o.Status()
	if err := o.ReleaseCourier(); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, o, observed); err != nil {
		return err
	}
	if err := record(ctx, uow.ActivityRepository(), command.RequestedBy(), activity.ActionDeliveryReleased,
		activity.EntityOrder, o.ID().String(),
		activity.Details{"courierId": courierID.String(), "reason": "courier not eligible"}, now); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "released reservation of ineligible courier",
		"orderId", o.ID().String(), "courierId", courierID.String())
	return nil
}

// attempt tries one courier in its own unit of work.
func (h AssignCourierCommandHandler) attempt(
	ctx context.Context,
	command AssignCourierCommand,
	target assignTarget,
	now time.Time,
) (*order.Order, services.Assignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, services.Assignment{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	couriers := uow.CourierRepository()

	// The row lock makes a concurrent attempt wait and then see this attempt's courier;
	// a reservation does not move the status, so the status guard alone cannot catch it.
	o, err := orders.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return nil, services.Assignment{}, err
	}
	if o.Status() == order.Confirmed && o.Courier() != nil {
		return nil, services.Assignment{}, errs.NewStateConflictError("order", "already has a reserved courier")
	}
	observed := o.Status()

	if err = couriers.Reserve(ctx, target.id, target.version); err != nil {
		if errors.Is(err, errs.ErrStateConflict) {
			return nil, services.Assignment{}, errCourierTaken
		}
		return nil, services.Assignment{}, err
	}
	c, err := couriers.Get(ctx, target.id)
	if err != nil {
		return nil, services.Assignment{}, err
	}

	assignment, err := h.matcher.Assign(o, c, now)
	if err != nil {
		return nil, services.Assignment{}, err
	}
	if err = orders.Update(ctx, o, observed); err != nil {
		return nil, services.Assignment{}, err
	}
	if assignment.Entry != nil {
		if err = uow.TrackingRepository().Append(ctx, *assignment.Entry); err != nil {
			return nil, services.Assignment{}, err
		}
	}

	action := activity.ActionDeliveryReserved
	if assignment.Dispatched {
		action = activity.ActionDeliveryAssigned
	}
	if err = record(ctx, uow.ActivityRepository(), command.RequestedBy(), action, activity.EntityOrder, o.ID().String(),
		activity.Details{"courierId": c.ID().String(), "status": o.Status().String()}, now); err != nil {
		return nil, services.Assignment{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, services.Assignment{}, err
	}
	return o, assignment, nil
}

func (h AssignCourierCommandHandler) announce(ctx context.Context, o *order.Order, assignment services.Assignment) {
	if !assignment.Dispatched {
		return
	}
	notify(ctx, h.notifier, h.logger, o.Contact(), ports.EventCourierAssigned, map[string]any{
		"orderId":   o.ID().String(),
		"number":    o.Number(),
		"courierId": o.Courier().String(),
	})
}

func (h AssignCourierCommandHandler) finishAssigned(assignment services.Assignment, attempts int) {
	if assignment.Dispatched {
		h.metrics.AssignmentFinished(AssignOutcomeDispatched, attempts)
		return
	}
	h.metrics.AssignmentFinished(AssignOutcomeReserved, attempts)
}

func (h AssignCourierCommandHandler) finish(err error, attempts int) {
	switch {
	case errors.Is(err, errs.ErrNoCourierAvailable):
		h.metrics.AssignmentFinished(AssignOutcomeNoCourier, attempts)
	case errors.Is(err, errs.ErrStateConflict):
		h.metrics.AssignmentFinished(AssignOutcomeConflict, attempts)
	default:
		h.metrics.AssignmentFinished(AssignOutcomeError, attempts)
	}
}
