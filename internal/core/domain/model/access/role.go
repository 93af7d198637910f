package access

import (
	"fmt"

	"orderhub/internal/pkg/errs"
)

// RoleName is the closed set of roles an actor can hold.
type RoleName string

const (
	RoleSuperAdmin RoleName = "super_admin"
	RoleAdmin      RoleName = "admin"
	RoleSubAdmin   RoleName = "sub_admin"
	RoleCourier    RoleName = "courier"
	RoleCustomer   RoleName = "customer"
)

func ParseRoleName(s string) (RoleName, error) {
	switch r := RoleName(s); r {
	case RoleSuperAdmin, RoleAdmin, RoleSubAdmin, RoleCourier, RoleCustomer:
		return r, nil
	default:
		return "", errs.NewObjectNotFoundError("role", s)
	}
}

// IsStaff reports whether the role belongs to the tiered staff hierarchy.
func (r RoleName) IsStaff() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleSubAdmin
}

// Role is a named bundle of capabilities with an optional membership cap.
// A zero MaxMembers means uncapped.
type Role struct {
	name         RoleName
	capabilities CapabilitySet
	maxMembers   int
	tier         int
}

func NewRole(name RoleName, capabilities []Capability, maxMembers, tier int) (Role, error) {
	if _, err := ParseRoleName(string(name)); err != nil {
		return Role{}, err
	}
	if maxMembers < 0 {
		return Role{}, errs.NewValueIsInvalidErrorWithCause("maxMembers", fmt.Errorf("%d is negative", maxMembers))
	}
	for _, c := range capabilities {
		if !c.IsKnown() {
			return Role{}, errs.NewValueIsInvalidErrorWithCause("capability", fmt.Errorf("%q is unknown", c))
		}
	}
	return Role{
		name:         name,
		capabilities: NewCapabilitySet(capabilities...),
		maxMembers:   maxMembers,
		tier:         tier,
	}, nil
}

func (r Role) Name() RoleName {
	return r.name
}

func (r Role) Capabilities() CapabilitySet {
	return r.capabilities
}

func (r Role) MaxMembers() int {
	return r.maxMembers
}

func (r Role) IsCapped() bool {
	return r.maxMembers > 0
}

// Tier ranks roles for display; tier 1 is the most privileged.
func (r Role) Tier() int {
	return r.tier
}

// HasCapacity reports whether one more active member fits under the cap.
func (r Role) HasCapacity(activeMembers int) bool {
	return !r.IsCapped() || activeMembers < r.maxMembers
}

// RoleCatalog is the static role table, seeded once.
type RoleCatalog map[RoleName]Role

func NewRoleCatalog(roles ...Role) RoleCatalog {
	catalog := make(RoleCatalog, len(roles))
	for _, r := range roles {
		catalog[r.name] = r
	}
	return catalog
}

func (c RoleCatalog) Get(name RoleName) (Role, error) {
	r, ok := c[name]
	if !ok {
		return Role{}, errs.NewObjectNotFoundError("role", string(name))
	}
	return r, nil
}
