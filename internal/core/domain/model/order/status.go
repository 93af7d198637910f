package order

import (
	"fmt"

	"orderhub/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> OutForDelivery ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal. Status is persisted by its string name.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every order.
	Pending

	// Confirmed means the kitchen accepted the order.
	Confirmed

	// Preparing means the kitchen started cooking.
	Preparing

	// Ready means the order is packed and waiting for a courier.
	Ready

	// OutForDelivery means a courier picked the order up.
	OutForDelivery

	// Delivered is the successful terminal state.
	Delivered

	// Cancelled is the unsuccessful terminal state. Only reachable before preparation starts.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Confirmed:      "CONFIRMED",
		Preparing:      "PREPARING",
		Ready:          "READY",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

// getTransitions returns the outgoing edges of every status. Statuses missing from the map have none.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal statuses intentionally have no edges
	return map[Status][]Status{
		Pending:        {Confirmed, Cancelled},
		Confirmed:      {Preparing, Cancelled},
		Preparing:      {Ready},
		Ready:          {OutForDelivery},
		OutForDelivery: {Delivered},
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Confirmed, Preparing, Ready, OutForDelivery, Delivered, Cancelled}
}

// ParseStatus converts a persisted or client-supplied name back into a Status.
//
// Returns:
//   - the matching Status and nil
//   - Unknown and a validation error for any other input
func ParseStatus(s string) (Status, error) {
	for st, name := range getStatusStrings() {
		if st != Unknown && name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsCancellable reports whether the order may still be cancelled.
func (s Status) IsCancellable() bool {
	return s.CanTransitionTo(Cancelled)
}

// CanTransitionTo reports whether target is a direct successor of s in the graph.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range getTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ValidateTransition checks the edge s -> target without performing it.
//
// Returns:
//   - nil if the edge exists
//   - a validation error if target is not a valid status
//   - a StateConflictError if the edge does not exist
func (s Status) ValidateTransition(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !s.CanTransitionTo(target) {
		return errs.NewStateConflictError("order", fmt.Sprintf("cannot move from %s to %s", s, target))
	}
	return nil
}
