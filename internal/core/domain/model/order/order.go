package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order is the aggregate root of the order lifecycle. It owns its line items, its
// pricing breakdown and the per-phase timestamps.
//
// Order follows these invariants:
//   - status always lies on the transition graph reachable from Pending
//   - at most one terminal timestamp (deliveredAt or cancelledAt) is set
//   - phase timestamps never decrease
//   - OutForDelivery and Delivered orders always reference a courier
//   - a rating is only ever set once, on a Delivered order
type Order struct {
	id         kernel.UUID
	number     string
	customerID kernel.UUID
	courierID  *kernel.UUID
	status     Status

	items []LineItem
	quote Quote

	deliveryAddress string
	contact         string

	paymentMethod PaymentMethod
	paymentStatus PaymentStatus
	paidAt        *time.Time

	lastLocation   *kernel.GeoPoint
	lastLocationAt *time.Time

	rating *int

	createdAt   time.Time
	updatedAt   time.Time
	confirmedAt *time.Time
	preparingAt *time.Time
	readyAt     *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	guard guard.ConstructorGuard
}

// State is the full persisted shape of an order, used to restore it from storage.
type State struct {
	ID              kernel.UUID
	Number          string
	CustomerID      kernel.UUID
	CourierID       *kernel.UUID
	Status          Status
	Items           []LineItem
	Quote           Quote
	DeliveryAddress string
	Contact         string
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	PaidAt          *time.Time
	LastLocation    *kernel.GeoPoint
	LastLocationAt  *time.Time
	Rating          *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ConfirmedAt     *time.Time
	PreparingAt     *time.Time
	ReadyAt         *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// NewOrder places a new order in Pending status and returns it together with its first
// TrackingEntry.
//
// Parameters:
//   - id: unique identifier of the order
//   - number: human-readable order number (see NewOrderNumber)
//   - customerID: the placing actor
//   - items: line items priced from the catalog; must not be empty
//   - deliveryAddress, contact: required free text
//   - method: cash, mpesa or card
//   - policy: the fee formula applied to the subtotal
//   - now: creation instant
//
// Returns:
//   - the order and its first TrackingEntry if all validations pass
//   - every validation error joined together otherwise
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	items []LineItem,
	deliveryAddress, contact string,
	method PaymentMethod,
	policy PricingPolicy,
	now time.Time,
) (*Order, TrackingEntry, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomer(customerID),
		o.setItems(items),
		o.setDeliveryAddress(deliveryAddress),
		o.setContact(contact),
		o.setPaymentMethod(method),
		policy.Validate(),
	); err != nil {
		return nil, TrackingEntry{}, err
	}

	o.quote = policy.Quote(Subtotal(o.items))

	return o, newTrackingEntry(o.id, Pending, nil, "order placed", o.createdAt), nil
}

// RestoreOrder rebuilds an order from storage. Only structural consistency is checked.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		courierID:      s.CourierID,
		status:         s.Status,
		quote:          s.Quote,
		paymentStatus:  s.PaymentStatus,
		paidAt:         s.PaidAt,
		lastLocation:   s.LastLocation,
		lastLocationAt: s.LastLocationAt,
		rating:         s.Rating,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
		confirmedAt:    s.ConfirmedAt,
		preparingAt:    s.PreparingAt,
		readyAt:        s.ReadyAt,
		pickedUpAt:     s.PickedUpAt,
		deliveredAt:    s.DeliveredAt,
		cancelledAt:    s.CancelledAt,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setCustomer(s.CustomerID),
		o.setItems(s.Items),
		o.setPaymentMethod(s.PaymentMethod),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.deliveryAddress = s.DeliveryAddress
	o.contact = s.Contact

	if o.courierID == nil && (o.status == OutForDelivery || o.status == Delivered) {
		return nil, errs.NewValueIsInvalidErrorWithCause("courierID",
			fmt.Errorf("%s order must reference a courier", o.status))
	}
	if o.updatedAt.Before(o.createdAt) {
		o.updatedAt = o.createdAt
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Courier returns the assigned or reserved courier, nil if there is none.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	out := make([]LineItem, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Quote() Quote {
	return o.quote
}

func (o *Order) Total() kernel.Money {
	return o.quote.Total
}

func (o *Order) DeliveryFee() kernel.Money {
	return o.quote.DeliveryFee
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

func (o *Order) Contact() string {
	return o.contact
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) PaidAt() *time.Time {
	return o.paidAt
}

func (o *Order) LastLocation() *kernel.GeoPoint {
	return o.lastLocation
}

func (o *Order) LastLocationAt() *time.Time {
	return o.lastLocationAt
}

func (o *Order) Rating() *int {
	return o.rating
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) ConfirmedAt() *time.Time {
	return o.confirmedAt
}

func (o *Order) PreparingAt() *time.Time {
	return o.preparingAt
}

func (o *Order) ReadyAt() *time.Time {
	return o.readyAt
}

func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// IsOwnedBy reports whether actorID placed the order.
func (o *Order) IsOwnedBy(actorID kernel.UUID) bool {
	return o.customerID.IsEqual(actorID)
}

// Transition moves the order along one edge of the status graph.
//
// On success it stamps the phase timestamp of target, sets the status and returns the
// TrackingEntry recording the change. On failure the order is left untouched.
//
// Returns:
//   - a StateConflictError if target is not a direct successor of the current status
//   - a StateConflictError when moving to OutForDelivery without a courier
func (o *Order) Transition(target Status, note string, now time.Time) (TrackingEntry, error) {
	if err := o.status.ValidateTransition(target); err != nil {
		return TrackingEntry{}, err
	}
	if target == OutForDelivery && o.courierID == nil {
		return TrackingEntry{}, errs.NewStateConflictError("order", "has no courier to hand over to")
	}
	if target == Cancelled {
		o.courierID = nil
	}

	at := o.tick(now)
	o.stamp(target, at)
	o.status = target

	if strings.TrimSpace(note) == "" {
		note = "status changed to " + target.String()
	}
	return newTrackingEntry(o.id, target, o.lastLocation, note, at), nil
}

// Cancel moves the order to Cancelled. Only Pending and Confirmed orders can be cancelled.
func (o *Order) Cancel(note string, now time.Time) (TrackingEntry, error) {
	if !o.status.IsCancellable() {
		return TrackingEntry{}, errs.NewStateConflictError("order", fmt.Sprintf("cannot be cancelled in %s", o.status))
	}
	return o.Transition(Cancelled, note, now)
}

// ReserveCourier books a courier for a Confirmed order without changing its status.
// The reservation is turned into a hand-over by Dispatch once the order is Ready.
func (o *Order) ReserveCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.status != Confirmed {
		return errs.NewStateConflictError("order", fmt.Sprintf("cannot reserve a courier in %s", o.status))
	}
	if o.courierID != nil {
		return errs.NewStateConflictError("order", "already has a reserved courier")
	}
	o.courierID = &courierID
	return nil
}

// ReleaseCourier drops the courier reserved for an order that has not been handed over.
func (o *Order) ReleaseCourier() error {
	if o.courierID == nil {
		return errs.NewStateConflictError("order", "has no reserved courier")
	}
	switch o.status { //nolint:exhaustive // handed-over and terminal orders keep their courier
	case Confirmed, Preparing, Ready:
		o.courierID = nil
		return nil
	default:
		return errs.NewStateConflictError("order", fmt.Sprintf("cannot release its courier in %s", o.status))
	}
}

// Dispatch hands a Ready order over to a courier: it sets the courier, moves the order
// to OutForDelivery and stamps pickedUpAt. A courier reserved earlier must be the one
// dispatched.
func (o *Order) Dispatch(courierID kernel.UUID, now time.Time) (TrackingEntry, error) {
	if err := courierID.Validate(); err != nil {
		return TrackingEntry{}, err
	}
	if o.status != Ready {
		return TrackingEntry{}, errs.NewStateConflictError("order", fmt.Sprintf("cannot be dispatched in %s", o.status))
	}
	if o.courierID != nil && !o.courierID.IsEqual(courierID) {
		return TrackingEntry{}, errs.NewStateConflictError("order", "is reserved for another courier")
	}

	previous := o.courierID
	o.courierID = &courierID
	entry, err := o.Transition(OutForDelivery, "picked up by courier", now)
	if err != nil {
		o.courierID = previous
		return TrackingEntry{}, err
	}
	return entry, nil
}

// CompleteDelivery marks an OutForDelivery order as Delivered by its assigned courier.
//
// Returns:
//   - a PermissionDeniedError if courierID is not the assigned courier
//   - a StateConflictError if the order is not OutForDelivery
func (o *Order) CompleteDelivery(courierID kernel.UUID, now time.Time) (TrackingEntry, error) {
	if o.courierID == nil || !o.courierID.IsEqual(courierID) {
		return TrackingEntry{}, errs.NewPermissionDeniedError("assigned courier")
	}
	if o.status != OutForDelivery {
		return TrackingEntry{}, errs.NewStateConflictError("order", fmt.Sprintf("cannot be delivered in %s", o.status))
	}
	return o.Transition(Delivered, "delivered", now)
}

// Rate records the customer's rating of a delivered order. An order is rated once.
func (o *Order) Rate(customerID kernel.UUID, rating int) error {
	if !o.IsOwnedBy(customerID) {
		return errs.NewPermissionDeniedError("order owner")
	}
	if rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	if o.status != Delivered {
		return errs.NewStateConflictError("order", fmt.Sprintf("cannot be rated in %s", o.status))
	}
	if o.rating != nil {
		return errs.NewStateConflictError("order", "is already rated")
	}
	o.rating = &rating
	return nil
}

// UpdateLocation copies the courier's latest position onto an OutForDelivery order.
// A TrackingEntry is produced only when withTracking is set.
func (o *Order) UpdateLocation(point kernel.GeoPoint, withTracking bool, now time.Time) (*TrackingEntry, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if o.status != OutForDelivery {
		return nil, errs.NewStateConflictError("order", fmt.Sprintf("cannot track location in %s", o.status))
	}

	at := o.tick(now)
	o.lastLocation = &point
	o.lastLocationAt = &at

	if !withTracking {
		return nil, nil //nolint:nilnil // no entry requested
	}
	entry := newTrackingEntry(o.id, o.status, &point, "courier location updated", at)
	return &entry, nil
}

// MarkPaid records a completed payment. It reports false when the order was already paid,
// so repeated gateway callbacks are harmless.
func (o *Order) MarkPaid(now time.Time) bool {
	if o.paymentStatus == PaymentCompleted {
		return false
	}
	at := o.tick(now)
	o.paymentStatus = PaymentCompleted
	o.paidAt = &at
	return true
}

// tick advances the order clock, never letting it run backwards.
func (o *Order) tick(now time.Time) time.Time {
	at := now.UTC()
	if at.Before(o.updatedAt) {
		at = o.updatedAt
	}
	o.updatedAt = at
	return at
}

func (o *Order) stamp(target Status, at time.Time) {
	switch target { //nolint:exhaustive // Pending and Unknown have no phase timestamp
	case Confirmed:
		o.confirmedAt = &at
	case Preparing:
		o.preparingAt = &at
	case Ready:
		o.readyAt = &at
	case OutForDelivery:
		o.pickedUpAt = &at
	case Delivered:
		o.deliveredAt = &at
	case Cancelled:
		o.cancelledAt = &at
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return errs.NewValueIsRequiredError("number")
	}
	o.number = number
	return nil
}

func (o *Order) setCustomer(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, li := range items {
		if li.menuItemID == "" {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %d was not created via NewLineItem", i))
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setContact(contact string) error {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return errs.NewValueIsRequiredError("contact")
	}
	o.contact = contact
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	parsed, err := ParsePaymentMethod(string(method))
	if err != nil {
		return err
	}
	o.paymentMethod = parsed
	return nil
}
