package access

import "sort"

// Capability is an atomic permission gating one action.
type Capability string

const (
	CapOrderCreate    Capability = "order.create"
	CapOrderConfirm   Capability = "order.confirm"
	CapOrderPrepare   Capability = "order.prepare"
	CapOrderMarkReady Capability = "order.mark_ready"
	CapOrderDispatch  Capability = "order.dispatch"
	CapOrderDeliver   Capability = "order.deliver"
	CapOrderCancel    Capability = "order.cancel"
	CapOrderView      Capability = "order.view"

	CapDeliveryAssign   Capability = "delivery.assign"
	CapDeliveryComplete Capability = "delivery.complete"
	CapDeliveryRate     Capability = "delivery.rate"
	CapLocationUpdate   Capability = "location.update"

	CapRoleManage      Capability = "role.manage"
	CapActorDeactivate Capability = "actor.deactivate"
	CapCapabilityGrant Capability = "capability.grant"
	CapActivityRead    Capability = "activity.read"
)

// KnownCapabilities lists every capability the system checks.
func KnownCapabilities() []Capability {
	return []Capability{
		CapOrderCreate, CapOrderConfirm, CapOrderPrepare, CapOrderMarkReady,
		CapOrderDispatch, CapOrderDeliver, CapOrderCancel, CapOrderView,
		CapDeliveryAssign, CapDeliveryComplete, CapDeliveryRate, CapLocationUpdate,
		CapRoleManage, CapActorDeactivate, CapCapabilityGrant, CapActivityRead,
	}
}

func (c Capability) IsKnown() bool {
	for _, k := range KnownCapabilities() {
		if k == c {
			return true
		}
	}
	return false
}

// CapabilitySet is an immutable-by-convention set of capabilities.
type CapabilitySet map[Capability]struct{}

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Union returns a new set holding the members of both sets.
func (s CapabilitySet) Union(other CapabilitySet) CapabilitySet {
	out := make(CapabilitySet, len(s)+len(other))
	for c := range s {
		out[c] = struct{}{}
	}
	for c := range other {
		out[c] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order, for persistence and display.
func (s CapabilitySet) Sorted() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
