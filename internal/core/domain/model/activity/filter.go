package activity

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// Filter narrows a ledger query. Zero fields do not filter. The time range is [From, To).
// Results are always returned newest first.
type Filter struct {
	ActorID    *kernel.UUID
	Action     Action
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Normalize applies the default limit and rejects inconsistent ranges.
func (f Filter) Normalize() (Filter, error) {
	if f.Limit < 0 || f.Limit > MaxQueryLimit {
		return Filter{}, errs.NewValueIsOutOfRangeError("limit", f.Limit, 0, MaxQueryLimit)
	}
	if f.Limit == 0 {
		f.Limit = DefaultQueryLimit
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return Filter{}, errs.NewValueIsInvalidError("time range")
	}
	if f.ActorID != nil {
		if err := f.ActorID.Validate(); err != nil {
			return Filter{}, err
		}
	}
	return f, nil
}
