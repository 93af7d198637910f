// Package errs provides the error types shared by every layer of orderhub.
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrStateConflict) usable with errors.Is
//   - a struct type carrying the details of one occurrence
//   - constructor functions, with and without cause where a cause makes sense
//   - an Unwrap method returning the sentinel
//
// KindOf maps any error onto the caller-facing taxonomy.
package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")

	ErrStateConflict      = errors.New("state conflict")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrRoleLimitExceeded  = errors.New("role limit exceeded")
	ErrNoCourierAvailable = errors.New("no courier available")
	ErrItemUnavailable    = errors.New("item unavailable")
	ErrTransient          = errors.New("transient failure")
)

// ObjectNotFoundError is returned when an aggregate or record cannot be found by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when an input or a state value fails validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a value falls outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// StateConflictError reports an illegal transition or a lost optimistic-concurrency race.
// The record was left untouched; callers must re-read before deciding what to do.
type StateConflictError struct {
	Entity string
	Reason string
}

func NewStateConflictError(entity, reason string) *StateConflictError {
	return &StateConflictError{Entity: entity, Reason: reason}
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrStateConflict, e.Entity, e.Reason)
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

// PermissionDeniedError reports a missing capability.
type PermissionDeniedError struct {
	Capability string
}

func NewPermissionDeniedError(capability string) *PermissionDeniedError {
	return &PermissionDeniedError{Capability: capability}
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s: %s required", ErrPermissionDenied, e.Capability)
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// AccountLockedError is returned while an account is inside its lockout cool-down.
type AccountLockedError struct {
	Until time.Time
}

func NewAccountLockedError(until time.Time) *AccountLockedError {
	return &AccountLockedError{Until: until}
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("%s until %s", ErrAccountLocked, e.Until.UTC().Format(time.RFC3339))
}

func (e *AccountLockedError) Unwrap() error {
	return ErrAccountLocked
}

// RoleLimitExceededError is returned when a capped role is already at capacity.
type RoleLimitExceededError struct {
	Role string
	Max  int
}

func NewRoleLimitExceededError(role string, maxMembers int) *RoleLimitExceededError {
	return &RoleLimitExceededError{Role: role, Max: maxMembers}
}

func (e *RoleLimitExceededError) Error() string {
	return fmt.Sprintf("%s: %s allows at most %d active members", ErrRoleLimitExceeded, e.Role, e.Max)
}

func (e *RoleLimitExceededError) Unwrap() error {
	return ErrRoleLimitExceeded
}

// NoCourierAvailableError is returned when every ranked candidate was rejected or none existed.
type NoCourierAvailableError struct {
	Attempts int
}

func NewNoCourierAvailableError(attempts int) *NoCourierAvailableError {
	return &NoCourierAvailableError{Attempts: attempts}
}

func (e *NoCourierAvailableError) Error() string {
	return fmt.Sprintf("%s after %d attempts", ErrNoCourierAvailable, e.Attempts)
}

func (e *NoCourierAvailableError) Unwrap() error {
	return ErrNoCourierAvailable
}

// ItemUnavailableError is returned when the catalog refuses to price a line item.
type ItemUnavailableError struct {
	ItemID string
}

func NewItemUnavailableError(itemID string) *ItemUnavailableError {
	return &ItemUnavailableError{ItemID: itemID}
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrItemUnavailable, e.ItemID)
}

func (e *ItemUnavailableError) Unwrap() error {
	return ErrItemUnavailable
}

// TransientError wraps a retryable infrastructure failure. The whole call may be retried from scratch.
type TransientError struct {
	Cause error
}

func NewTransientError(cause error) *TransientError {
	return &TransientError{Cause: cause}
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s (cause: %v)", ErrTransient, e.Cause)
}

func (e *TransientError) Unwrap() []error {
	return []error{ErrTransient, e.Cause}
}

func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
