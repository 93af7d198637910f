package activity

import (
	"errors"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

// Action tags follow the <resource>.<verb> convention.
type Action string

const (
	ActionOrderCreated           Action = "order.created"
	ActionOrderTransitioned      Action = "order.transitioned"
	ActionOrderCancelled         Action = "order.cancelled"
	ActionOrderPaymentCompleted  Action = "order.payment_completed"
	ActionDeliveryAssigned       Action = "delivery.assigned"
	ActionDeliveryReserved       Action = "delivery.reserved"
	ActionDeliveryReleased       Action = "delivery.released"
	ActionDeliveryCompleted      Action = "delivery.completed"
	ActionDeliveryRated          Action = "delivery.rated"
	ActionCourierLocationUpdated Action = "courier.location_updated"
	ActionAuthSucceeded          Action = "auth.succeeded"
	ActionAuthFailed             Action = "auth.failed"
	ActionActorRegistered        Action = "actor.registered"
	ActionActorPromoted          Action = "actor.promoted"
	ActionActorDeactivated       Action = "actor.deactivated"
	ActionCapabilityGranted      Action = "capability.granted"
)

// Entity types referenced by entries.
const (
	EntityOrder   = "order"
	EntityActor   = "actor"
	EntityCourier = "courier"
)

// Details is the free-form payload of an entry. Values must be JSON-encodable.
type Details map[string]any

// Entry is one immutable ledger record. ActorID is nil for system events such as
// payment callbacks or the dispatch job.
type Entry struct {
	ID         kernel.UUID
	ActorID    *kernel.UUID
	Action     Action
	EntityType string
	EntityID   string
	Details    Details
	Provenance *Provenance
	CreatedAt  time.Time
}

// NewEntry builds an entry stamped with now.
func NewEntry(
	actorID *kernel.UUID,
	action Action,
	entityType, entityID string,
	details Details,
	provenance *Provenance,
	now time.Time,
) (Entry, error) {
	var errList []error
	if actorID != nil {
		errList = append(errList, actorID.Validate())
	}
	if !strings.Contains(string(action), ".") {
		errList = append(errList, errs.NewValueIsInvalidError("action"))
	}
	if strings.TrimSpace(entityType) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("entityType"))
	}
	if strings.TrimSpace(entityID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("entityID"))
	}
	if err := errors.Join(errList...); err != nil {
		return Entry{}, err
	}

	if details == nil {
		details = Details{}
	}

	return Entry{
		ID:         kernel.NewUUID(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		Provenance: provenance,
		CreatedAt:  now.UTC(),
	}, nil
}
