package courier

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
	// DefaultRating is the running average a courier starts with before any rating arrives.
	DefaultRating = 5.0

	MinRating = 1
	MaxRating = 5
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
)

// Courier represents a delivery agent.
//
// Key responsibilities:
//   - holding the statistics the matcher ranks by (rating, total deliveries)
//   - accumulating earnings from delivered orders
//   - remembering the last reported position
//
// Business rules:
//   - rating stays within [MinRating, MaxRating]
//   - rating can only be applied after at least one delivery
//   - version increases by one on every persisted reservation
type Courier struct {
	// id is the identifier of the owning actor
	id kernel.UUID
	// name is the display name shown to customers
	name string
	// rating is the running average of customer ratings
	rating float64
	// totalDeliveries counts every completed delivery
	totalDeliveries int
	// successfulDeliveries counts deliveries completed without incident
	successfulDeliveries int
	// totalEarnings sums the delivery fees of completed orders
	totalEarnings kernel.Money
	// location is the last reported position, nil until the first ping
	location *kernel.GeoPoint
	// locationUpdatedAt is when location was reported
	locationUpdatedAt *time.Time
	// version guards concurrent reservations
	version int64
	// createdAt is when the profile was registered
	createdAt time.Time
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// State is the persisted shape of a courier.
type State struct {
	ID                   kernel.UUID
	Name                 string
	Rating               float64
	TotalDeliveries      int
	SuccessfulDeliveries int
	TotalEarnings        kernel.Money
	Location             *kernel.GeoPoint
	LocationUpdatedAt    *time.Time
	Version              int64
	CreatedAt            time.Time
}

// NewCourier registers a courier profile for the actor identified by id.
//
// Parameters:
//   - id: identifier of the actor holding the courier role
//   - name: display name (must be non-empty)
//   - now: registration instant
func NewCourier(id kernel.UUID, name string, now time.Time) (*Courier, error) {
	c := &Courier{
		rating:    DefaultRating,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier rebuilds a courier from storage.
func RestoreCourier(s State) (*Courier, error) {
	c := &Courier{
		rating:               s.Rating,
		totalDeliveries:      s.TotalDeliveries,
		successfulDeliveries: s.SuccessfulDeliveries,
		totalEarnings:        s.TotalEarnings,
		location:             s.Location,
		locationUpdatedAt:    s.LocationUpdatedAt,
		version:              s.Version,
		createdAt:            s.CreatedAt,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setID(s.ID), c.setName(s.Name)); err != nil {
		return nil, err
	}
	if s.TotalDeliveries < 0 || s.SuccessfulDeliveries < 0 || s.SuccessfulDeliveries > s.TotalDeliveries {
		return nil, errs.NewValueIsInvalidErrorWithCause("deliveries",
			fmt.Errorf("total %d, successful %d", s.TotalDeliveries, s.SuccessfulDeliveries))
	}

	return c, nil
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// Validate ensures the Courier instance was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Rating() float64 {
	return c.rating
}

func (c *Courier) TotalDeliveries() int {
	return c.totalDeliveries
}

func (c *Courier) SuccessfulDeliveries() int {
	return c.successfulDeliveries
}

func (c *Courier) TotalEarnings() kernel.Money {
	return c.totalEarnings
}

func (c *Courier) Location() *kernel.GeoPoint {
	return c.location
}

func (c *Courier) LocationUpdatedAt() *time.Time {
	return c.locationUpdatedAt
}

// Version returns the optimistic-concurrency version observed when the courier was loaded.
func (c *Courier) Version() int64 {
	return c.version
}

func (c *Courier) CreatedAt() time.Time {
	return c.createdAt
}

// RecordDelivery books one completed delivery and its fee.
func (c *Courier) RecordDelivery(fee kernel.Money) error {
	if fee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("fee", fmt.Errorf("%d is negative", fee))
	}
	c.totalDeliveries++
	c.successfulDeliveries++
	c.totalEarnings = c.totalEarnings.Add(fee)
	return nil
}

// ApplyRating folds a customer rating into the running average:
//
//	avg = (avg × (n − 1) + rating) / n
//
// where n is the total delivery count after the rated delivery was recorded.
func (c *Courier) ApplyRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	if c.totalDeliveries == 0 {
		return errs.NewStateConflictError("courier", "has no deliveries to rate")
	}

	n := float64(c.totalDeliveries)
	c.rating = (c.rating*(n-1) + float64(rating)) / n
	return nil
}

// MoveTo records the latest reported position.
func (c *Courier) MoveTo(point kernel.GeoPoint, now time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	at := now.UTC()
	c.location = &point
	c.locationUpdatedAt = &at
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
