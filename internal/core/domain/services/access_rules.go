package services

import (
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
)

// AccessRules holds the authorization rules that depend on more than a capability lookup.
type AccessRules struct{}

func NewAccessRules() AccessRules {
	return AccessRules{}
}

// TransitionCapability returns the capability guarding the edge into target.
func (AccessRules) TransitionCapability(target order.Status) (access.Capability, error) {
	switch target { //nolint:exhaustive // Pending is never a target
	case order.Confirmed:
		return access.CapOrderConfirm, nil
	case order.Preparing:
		return access.CapOrderPrepare, nil
	case order.Ready:
		return access.CapOrderMarkReady, nil
	case order.OutForDelivery:
		return access.CapOrderDispatch, nil
	case order.Delivered:
		return access.CapOrderDeliver, nil
	case order.Cancelled:
		return access.CapOrderCancel, nil
	default:
		return "", errs.NewValueIsInvalidError("target status " + target.String())
	}
}

// CheckPromotion validates that requester may move an actor into target.
// Only a super admin may create another super admin.
func (AccessRules) CheckPromotion(requester access.Permissions, target access.RoleName, now time.Time) error {
	if !requester.Allows(access.CapRoleManage, now) {
		return errs.NewPermissionDeniedError(string(access.CapRoleManage))
	}
	if target == access.RoleSuperAdmin && requester.Role != access.RoleSuperAdmin {
		return errs.NewPermissionDeniedError(string(access.RoleSuperAdmin))
	}
	return nil
}

// CheckDeactivation validates that requester may deactivate subject.
// Nobody deactivates themselves and only a super admin deactivates another super admin.
func (AccessRules) CheckDeactivation(requester access.Permissions, subject *access.Actor, now time.Time) error {
	if !requester.Allows(access.CapActorDeactivate, now) {
		return errs.NewPermissionDeniedError(string(access.CapActorDeactivate))
	}
	if requester.ActorID.IsEqual(subject.ID()) {
		return errs.NewPermissionDeniedError("another actor")
	}
	if subject.HasRole(access.RoleSuperAdmin) && requester.Role != access.RoleSuperAdmin {
		return errs.NewPermissionDeniedError(string(access.RoleSuperAdmin))
	}
	return nil
}

// CanCancel reports whether actorID may cancel o. An active owner always may; anyone else
// needs order.cancel.
func (AccessRules) CanCancel(requester access.Permissions, o *order.Order, actorID kernel.UUID, now time.Time) bool {
	if !requester.Active {
		return false
	}
	return o.IsOwnedBy(actorID) || requester.Allows(access.CapOrderCancel, now)
}
