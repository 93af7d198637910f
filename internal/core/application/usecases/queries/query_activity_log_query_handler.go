package queries

import (
	"context"
	"errors"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// QueryActivityLogQueryHandler reads the ledger for holders of activity.read.
type QueryActivityLogQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	resolver   PermissionResolver
	clock      ports.Clock
}

func NewQueryActivityLogQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	resolver PermissionResolver,
	clock ports.Clock,
) QueryActivityLogQueryHandler {
	return QueryActivityLogQueryHandler{uowFactory: uowFactory, resolver: resolver, clock: clock}
}

// Handle returns matching entries, newest first.
func (h QueryActivityLogQueryHandler) Handle(ctx context.Context, query QueryActivityLogQuery) ([]activity.Entry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	p, err := h.resolver.Resolve(ctx, query.RequestedBy())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewPermissionDeniedError(string(access.CapActivityRead))
	}
	if err != nil {
		return nil, err
	}
	if !p.Allows(access.CapActivityRead, h.clock.Now()) {
		return nil, errs.NewPermissionDeniedError(string(access.CapActivityRead))
	}

	return h.uowFactory.Create().ActivityRepository().Query(ctx, query.Filter())
}
