package services

import (
	"sort"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/courier"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
)

// Assignment describes what applying a courier to an order did.
type Assignment struct {
	// Dispatched is true when the order moved to OutForDelivery, false when the
	// courier was only reserved on a Confirmed order.
	Dispatched bool
	// Entry is the TrackingEntry of the hand-over, nil for reservations.
	Entry *order.TrackingEntry
}

// CourierMatcher is a domain service selecting couriers for orders.
//
// Key responsibilities:
//   - ranking candidates so load balancing wins over rating
//   - applying the chosen courier to the order according to its status
//
// Ranking key, in priority order:
//   - fewer orders currently OutForDelivery
//   - higher average rating
//   - more total deliveries
//   - lower identifier, so ties resolve the same way every time
//
// Example usage:
//
//	matcher := NewCourierMatcher()
//	ranked, err := matcher.Rank(candidates)
//	for _, c := range ranked {
//	    assignment, err := matcher.Assign(o, c, now)
//	    ...
//	}
type CourierMatcher struct{}

// NewCourierMatcher creates a new CourierMatcher instance.
func NewCourierMatcher() CourierMatcher {
	return CourierMatcher{}
}

// Rank orders the candidates best-first. The input slice is not modified.
//
// Returns:
//   - the ranked couriers
//   - a NoCourierAvailableError when there are no candidates
//   - a validation error if any candidate was not properly constructed
func (m CourierMatcher) Rank(candidates []courier.Candidate) ([]*courier.Courier, error) {
	if len(candidates) == 0 {
		return nil, errs.NewNoCourierAvailableError(0)
	}

	sorted := make([]courier.Candidate, len(candidates))
	copy(sorted, candidates)
	for _, c := range sorted {
		if err := c.Courier.Validate(); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return m.less(sorted[i], sorted[j])
	})

	out := make([]*courier.Courier, len(sorted))
	for i, c := range sorted {
		out[i] = c.Courier
	}
	return out, nil
}

// Assign applies the courier to the order.
//
// A Ready order is handed over: courier set, status OutForDelivery, pickedUpAt stamped.
// A Confirmed order only gets the courier reserved; its status does not change.
// Any other status is a StateConflictError.
func (m CourierMatcher) Assign(o *order.Order, c *courier.Courier, now time.Time) (Assignment, error) {
	if err := o.Validate(); err != nil {
		return Assignment{}, err
	}
	if err := c.Validate(); err != nil {
		return Assignment{}, err
	}

	switch o.Status() { //nolint:exhaustive // every other status is a conflict
	case order.Ready:
		entry, err := o.Dispatch(c.ID(), now)
		if err != nil {
			return Assignment{}, err
		}
		return Assignment{Dispatched: true, Entry: &entry}, nil
	case order.Confirmed:
		if err := o.ReserveCourier(c.ID()); err != nil {
			return Assignment{}, err
		}
		return Assignment{}, nil
	default:
		return Assignment{}, errs.NewStateConflictError("order", "cannot be assigned in "+o.Status().String())
	}
}

func (m CourierMatcher) less(a, b courier.Candidate) bool {
	if a.ActiveDeliveries != b.ActiveDeliveries {
		return a.ActiveDeliveries < b.ActiveDeliveries
	}
	if a.Courier.Rating() != b.Courier.Rating() {
		return a.Courier.Rating() > b.Courier.Rating()
	}
	if a.Courier.TotalDeliveries() != b.Courier.TotalDeliveries() {
		return a.Courier.TotalDeliveries() > b.Courier.TotalDeliveries()
	}
	return strings.Compare(a.Courier.ID().String(), b.Courier.ID().String()) < 0
}
