package queries

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermissionResolver returns the effective permissions of an actor.
type PermissionResolver interface {
	Resolve(ctx context.Context, actorID kernel.UUID) (access.Permissions, error)
}

// checkOrderVisible lets the customer who placed the order, the courier carrying it and
// holders of order.view read it. Unknown orders are reported as not found before any
// permission is checked.
func checkOrderVisible(
	ctx context.Context,
	db *gorm.DB,
	resolver PermissionResolver,
	orderID, requesterID kernel.UUID,
	now time.Time,
) error {
	var owner struct {
		CustomerID uuid.UUID
		CourierID  *uuid.UUID
	}
	result := db.WithContext(ctx).Raw(`
		SELECT customer_id, courier_id
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Scan(&owner)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", orderID.String())
	}

	p, err := resolver.Resolve(ctx, requesterID)
	if err != nil {
		return denyUnknown(err)
	}
	if !p.Active {
		return errs.NewPermissionDeniedError(string(access.CapOrderView))
	}

	requester := requesterID.Bytes()
	if owner.CustomerID == requester || (owner.CourierID != nil && *owner.CourierID == requester) {
		return nil
	}
	if !p.Allows(access.CapOrderView, now) {
		return errs.NewPermissionDeniedError(string(access.CapOrderView))
	}
	return nil
}

func denyUnknown(err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewPermissionDeniedError(string(access.CapOrderView))
	}
	return err
}
