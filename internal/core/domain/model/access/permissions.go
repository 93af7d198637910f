package access

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
)

// GrantedCapability is a time-bound capability as seen by the authorizer.
type GrantedCapability struct {
	Capability Capability
	ExpiresAt  time.Time
}

// Permissions is an actor's resolved authorization state. It is what the capability
// cache stores, so evaluating it never touches storage.
type Permissions struct {
	ActorID      kernel.UUID
	Active       bool
	Role         RoleName
	Capabilities CapabilitySet
	Grants       []GrantedCapability
}

// ResolvePermissions computes the effective permissions of an actor from the role catalog
// and its grants. Expired grants are dropped here and re-checked on every evaluation.
func ResolvePermissions(actor *Actor, catalog RoleCatalog, grants []Grant, now time.Time) (Permissions, error) {
	if err := actor.Validate(); err != nil {
		return Permissions{}, err
	}

	role, err := catalog.Get(actor.Role())
	if err != nil {
		return Permissions{}, err
	}

	p := Permissions{
		ActorID:      actor.ID(),
		Active:       actor.IsActive(),
		Role:         actor.Role(),
		Capabilities: role.Capabilities(),
	}
	for _, g := range grants {
		if g.ActiveAt(now) {
			p.Grants = append(p.Grants, GrantedCapability{Capability: g.Capability, ExpiresAt: g.ExpiresAt})
		}
	}
	return p, nil
}

// Allows reports whether the capability is held at the given instant.
func (p Permissions) Allows(c Capability, now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.Role == RoleSuperAdmin {
		return true
	}
	if p.Capabilities.Has(c) {
		return true
	}
	for _, g := range p.Grants {
		if g.Capability == c && now.Before(g.ExpiresAt) {
			return true
		}
	}
	return false
}
