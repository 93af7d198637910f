package access

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
)

// Session is the result of a successful authentication. Token is opaque to callers.
type Session struct {
	ID        kernel.UUID
	ActorID   kernel.UUID
	Role      RoleName
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
