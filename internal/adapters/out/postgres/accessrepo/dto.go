// Package accessrepo persists actors, the role catalog and capability grants.
package accessrepo

import (
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ActorDTO represents the database structure for persisting actors. Email and phone are
// nullable so that the unique indexes ignore actors without them.
type ActorDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email               *string   `gorm:"type:varchar(255);uniqueIndex"`
	Phone               *string   `gorm:"type:varchar(32);uniqueIndex"`
	Name                string    `gorm:"type:varchar(255);not null"`
	CredentialHash      string    `gorm:"type:varchar(255);not null;default:''"`
	Guest               bool      `gorm:"not null;default:false"`
	Active              bool      `gorm:"not null;default:true;index"`
	FailedAttempts      int       `gorm:"not null;default:0"`
	LockedUntil         *time.Time
	LastAuthenticatedAt *time.Time
	Role                string    `gorm:"type:varchar(32);not null;index"`
	CreatedAt           time.Time `gorm:"not null"`
}

func (ActorDTO) TableName() string {
	return "actors"
}

// RoleDTO is one entry of the static role catalog.
type RoleDTO struct {
	Name         string         `gorm:"type:varchar(32);primaryKey"`
	Capabilities pq.StringArray `gorm:"type:text[];not null"`
	MaxMembers   int            `gorm:"not null;default:0"`
	Tier         int            `gorm:"not null"`
}

func (RoleDTO) TableName() string {
	return "roles"
}

// GrantDTO is a time-bound capability held by one actor.
type GrantDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Capability string    `gorm:"type:varchar(64);not null"`
	GrantedBy  uuid.UUID `gorm:"type:uuid;not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (GrantDTO) TableName() string {
	return "actor_grants"
}

func actorFromDomain(a *access.Actor) ActorDTO {
	return ActorDTO{
		ID:                  a.ID().Bytes(),
		Email:               nullable(a.Email()),
		Phone:               nullable(a.Phone()),
		Name:                a.Name(),
		CredentialHash:      a.CredentialHash(),
		Guest:               a.IsGuest(),
		Active:              a.IsActive(),
		FailedAttempts:      a.FailedAttempts(),
		LockedUntil:         a.LockedUntil(),
		LastAuthenticatedAt: a.LastAuthenticatedAt(),
		Role:                string(a.Role()),
		CreatedAt:           a.CreatedAt(),
	}
}

func actorToDomain(dto ActorDTO) (*access.Actor, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	role, err := access.ParseRoleName(dto.Role)
	if err != nil {
		return nil, err
	}
	return access.RestoreActor(
		id,
		deref(dto.Email),
		deref(dto.Phone),
		dto.Name,
		dto.CredentialHash,
		dto.Guest,
		dto.Active,
		dto.FailedAttempts,
		utcPtr(dto.LockedUntil),
		utcPtr(dto.LastAuthenticatedAt),
		role,
		dto.CreatedAt.UTC(),
	)
}

func roleFromDomain(r access.Role) RoleDTO {
	caps := r.Capabilities().Sorted()
	names := make(pq.StringArray, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	return RoleDTO{
		Name:         string(r.Name()),
		Capabilities: names,
		MaxMembers:   r.MaxMembers(),
		Tier:         r.Tier(),
	}
}

func roleToDomain(dto RoleDTO) (access.Role, error) {
	caps := make([]access.Capability, 0, len(dto.Capabilities))
	for _, c := range dto.Capabilities {
		caps = append(caps, access.Capability(c))
	}
	return access.NewRole(access.RoleName(dto.Name), caps, dto.MaxMembers, dto.Tier)
}

func grantFromDomain(g access.Grant) GrantDTO {
	return GrantDTO{
		ID:         g.ID.Bytes(),
		ActorID:    g.ActorID.Bytes(),
		Capability: string(g.Capability),
		GrantedBy:  g.GrantedBy.Bytes(),
		ExpiresAt:  g.ExpiresAt,
		CreatedAt:  g.CreatedAt,
	}
}

func grantToDomain(dto GrantDTO) (access.Grant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return access.Grant{}, err
	}
	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return access.Grant{}, err
	}
	grantedBy, err := kernel.UUIDFromBytes(dto.GrantedBy[:])
	if err != nil {
		return access.Grant{}, err
	}
	return access.Grant{
		ID:         id,
		ActorID:    actorID,
		Capability: access.Capability(dto.Capability),
		GrantedBy:  grantedBy,
		ExpiresAt:  dto.ExpiresAt.UTC(),
		CreatedAt:  dto.CreatedAt.UTC(),
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
