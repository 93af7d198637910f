package errs

import "errors"

// Kind is the caller-facing error category. It is the only part of an error, besides
// a human-readable message, that crosses the application boundary.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindStateConflict      Kind = "state_conflict"
	KindPermissionDenied   Kind = "permission_denied"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAccountLocked      Kind = "account_locked"
	KindAccountInactive    Kind = "account_inactive"
	KindRoleLimitExceeded  Kind = "role_limit_exceeded"
	KindNoCourierAvailable Kind = "no_courier_available"
	KindItemUnavailable    Kind = "item_unavailable"
	KindTransient          Kind = "transient"
	KindInternal           Kind = "internal"
)

var kindsBySentinel = []struct {
	sentinel error
	kind     Kind
}{
	{ErrTransient, KindTransient},
	{ErrItemUnavailable, KindItemUnavailable},
	{ErrValueIsRequired, KindValidation},
	{ErrValueIsInvalid, KindValidation},
	{ErrValueIsOutOfRange, KindValidation},
	{ErrObjectNotFound, KindNotFound},
	{ErrStateConflict, KindStateConflict},
	{ErrPermissionDenied, KindPermissionDenied},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrAccountLocked, KindAccountLocked},
	{ErrAccountInactive, KindAccountInactive},
	{ErrRoleLimitExceeded, KindRoleLimitExceeded},
	{ErrNoCourierAvailable, KindNoCourierAvailable},
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kindsBySentinel {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

// IsRetryable reports whether the whole call may be retried from scratch.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
