package queries

import (
	"errors"

	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrQueryActivityLogQueryIsNotConstructed = errors.New(
	"QueryActivityLogQuery must be created via NewQueryActivityLogQuery constructor",
)

// QueryActivityLogQuery searches the activity ledger.
type QueryActivityLogQuery struct {
	filter      activity.Filter
	requestedBy kernel.UUID

	guard guard.ConstructorGuard
}

// NewQueryActivityLogQuery validates the filter, applying the default limit.
func NewQueryActivityLogQuery(filter activity.Filter, requestedBy kernel.UUID) (QueryActivityLogQuery, error) {
	if err := requestedBy.Validate(); err != nil {
		return QueryActivityLogQuery{}, err
	}
	normalized, err := filter.Normalize()
	if err != nil {
		return QueryActivityLogQuery{}, err
	}
	return QueryActivityLogQuery{filter: normalized, requestedBy: requestedBy, guard: guard.NewConstructorGuard()}, nil
}

func (q QueryActivityLogQuery) Filter() activity.Filter {
	return q.filter
}

func (q QueryActivityLogQuery) RequestedBy() kernel.UUID {
	return q.requestedBy
}

func (q QueryActivityLogQuery) Validate() error {
	return q.guard.Validate(ErrQueryActivityLogQueryIsNotConstructed)
}
