// Package rediscache keeps resolved permissions in Redis so authorization checks
// avoid a database round trip.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "orderhub:perm:"

type CapabilityCache struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr string, ttl time.Duration) *CapabilityCache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

func NewWithClient(c *redis.Client, ttl time.Duration) *CapabilityCache {
	return &CapabilityCache{c: c, ttl: ttl}
}

type grantDTO struct {
	Capability string    `json:"capability"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type permissionsDTO struct {
	ActorID      string     `json:"actorId"`
	Active       bool       `json:"active"`
	Role         string     `json:"role"`
	Capabilities []string   `json:"capabilities"`
	Grants       []grantDTO `json:"grants,omitempty"`
}

func (r *CapabilityCache) Get(ctx context.Context, actorID kernel.UUID) (access.Permissions, bool, error) {
	raw, err := r.c.Get(ctx, key(actorID)).Bytes()
	if err == redis.Nil {
		return access.Permissions{}, false, nil
	}
	if err != nil {
		return access.Permissions{}, false, errors.Wrap(err, "redis get")
	}

	var dto permissionsDTO
	if err = json.Unmarshal(raw, &dto); err != nil {
		return access.Permissions{}, false, errors.Wrap(err, "decode cached permissions")
	}
	p, err := toPermissions(dto)
	if err != nil {
		return access.Permissions{}, false, errors.Wrap(err, "decode cached permissions")
	}
	return p, true, nil
}

// Set stores the permissions. The entry never outlives the earliest grant expiry, so a
// lapsed grant is re-resolved from storage instead of trusted from the cache.
func (r *CapabilityCache) Set(ctx context.Context, p access.Permissions) error {
	raw, err := json.Marshal(fromPermissions(p))
	if err != nil {
		return errors.Wrap(err, "encode permissions")
	}

	ttl := r.ttl
	for _, g := range p.Grants {
		if left := time.Until(g.ExpiresAt); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return nil
	}

	if err = r.c.Set(ctx, key(p.ActorID), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *CapabilityCache) Invalidate(ctx context.Context, actorID kernel.UUID) error {
	if err := r.c.Del(ctx, key(actorID)).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

func (r *CapabilityCache) Close() error {
	return r.c.Close()
}

func key(actorID kernel.UUID) string {
	return keyPrefix + actorID.String()
}

func fromPermissions(p access.Permissions) permissionsDTO {
	dto := permissionsDTO{
		ActorID: p.ActorID.String(),
		Active:  p.Active,
		Role:    string(p.Role),
	}
	for _, c := range p.Capabilities.Sorted() {
		dto.Capabilities = append(dto.Capabilities, string(c))
	}
	for _, g := range p.Grants {
		dto.Grants = append(dto.Grants, grantDTO{Capability: string(g.Capability), ExpiresAt: g.ExpiresAt.UTC()})
	}
	return dto
}

func toPermissions(dto permissionsDTO) (access.Permissions, error) {
	id, err := kernel.UUIDFromString(dto.ActorID)
	if err != nil {
		return access.Permissions{}, err
	}
	role, err := access.ParseRoleName(dto.Role)
	if err != nil {
		return access.Permissions{}, err
	}

	caps := make([]access.Capability, 0, len(dto.Capabilities))
	for _, c := range dto.Capabilities {
		caps = append(caps, access.Capability(c))
	}
	p := access.Permissions{
		ActorID:      id,
		Active:       dto.Active,
		Role:         role,
		Capabilities: access.NewCapabilitySet(caps...),
	}
	for _, g := range dto.Grants {
		p.Grants = append(p.Grants, access.GrantedCapability{Capability: access.Capability(g.Capability), ExpiresAt: g.ExpiresAt})
	}
	return p, nil
}
