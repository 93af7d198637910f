package errs_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "123")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("order", "123", cause)

		assert.Equal(t,
			"object not found: param is: order, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueErrors(t *testing.T) {
	t.Run("value is invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("rating", errors.New("7 is not within 1..5"))

		assert.Equal(t, "value is invalid: rating (cause: 7 is not within 1..5)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("value is out of range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 91.5, -90, 90)

		assert.Equal(t, "value is invalid: 91.5 is latitude, min value is -90, max value is 90", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("out of range value is sanitized", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("note", "line\nbreak", 0, 10)

		assert.Contains(t, err.Error(), "line break")
		assert.NotContains(t, err.Error(), "\n")
	})

	t.Run("value is required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("deliveryAddress")

		assert.Equal(t, "value is required: deliveryAddress", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestDomainErrors(t *testing.T) {
	until := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "state conflict",
			err:      errs.NewStateConflictError("order", "cannot move from DELIVERED to CANCELLED"),
			sentinel: errs.ErrStateConflict,
			message:  "state conflict: order cannot move from DELIVERED to CANCELLED",
		},
		{
			name:     "permission denied",
			err:      errs.NewPermissionDeniedError("order.confirm"),
			sentinel: errs.ErrPermissionDenied,
			message:  "permission denied: order.confirm required",
		},
		{
			name:     "account locked",
			err:      errs.NewAccountLockedError(until),
			sentinel: errs.ErrAccountLocked,
			message:  "account is locked until 2026-10-15T12:00:00Z",
		},
		{
			name:     "role limit exceeded",
			err:      errs.NewRoleLimitExceededError("super_admin", 3),
			sentinel: errs.ErrRoleLimitExceeded,
			message:  "role limit exceeded: super_admin allows at most 3 active members",
		},
		{
			name:     "no courier available",
			err:      errs.NewNoCourierAvailableError(3),
			sentinel: errs.ErrNoCourierAvailable,
			message:  "no courier available after 3 attempts",
		},
		{
			name:     "item unavailable",
			err:      errs.NewItemUnavailableError("menu-7"),
			sentinel: errs.ErrItemUnavailable,
			message:  "item unavailable: menu-7",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.err, tc.sentinel)
			assert.Equal(t, tc.message, tc.err.Error())
		})
	}
}

func TestTransientError(t *testing.T) {
	cause := errors.New("could not serialize access")
	err := errs.NewTransientError(cause)

	require.ErrorIs(t, err, errs.ErrTransient)
	require.ErrorIs(t, err, cause)
	assert.True(t, errs.IsRetryable(fmt.Errorf("commit: %w", err)))
	assert.False(t, errs.IsRetryable(errs.NewStateConflictError("order", "lost race")))
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		err  error
		kind errs.Kind
	}{
		{errs.NewValueIsRequiredError("items"), errs.KindValidation},
		{errs.NewValueIsInvalidError("paymentMethod"), errs.KindValidation},
		{errs.NewValueIsOutOfRangeError("quantity", 0, 1, 100), errs.KindValidation},
		{errs.NewObjectNotFoundError("order", "1"), errs.KindNotFound},
		{errs.NewStateConflictError("order", "x"), errs.KindStateConflict},
		{errs.NewPermissionDeniedError("role.manage"), errs.KindPermissionDenied},
		{errs.ErrInvalidCredentials, errs.KindInvalidCredentials},
		{errs.NewAccountLockedError(time.Now()), errs.KindAccountLocked},
		{errs.ErrAccountInactive, errs.KindAccountInactive},
		{errs.NewRoleLimitExceededError("admin", 2), errs.KindRoleLimitExceeded},
		{errs.NewNoCourierAvailableError(0), errs.KindNoCourierAvailable},
		{errs.NewItemUnavailableError("x"), errs.KindItemUnavailable},
		{errs.NewTransientError(errors.New("timeout")), errs.KindTransient},
		{errors.New("boom"), errs.KindInternal},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.kind, errs.KindOf(fmt.Errorf("wrapped: %w", tc.err)))
		})
	}

	assert.Equal(t, errs.Kind(""), errs.KindOf(nil))
}
