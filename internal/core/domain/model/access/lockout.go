package access

import "time"

const (
	DefaultLockoutThreshold = 5
	DefaultLockoutCooldown  = 15 * time.Minute
	DefaultSessionTTL       = 7 * 24 * time.Hour
)

// LockoutPolicy controls how many consecutive failures lock an account and for how long.
type LockoutPolicy struct {
	Threshold int
	Cooldown  time.Duration
}

func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{Threshold: DefaultLockoutThreshold, Cooldown: DefaultLockoutCooldown}
}
