package order_test

import (
	"testing"

	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   order.Status
		expected string
	}{
		{order.Pending, "PENDING"},
		{order.Confirmed, "CONFIRMED"},
		{order.Preparing, "PREPARING"},
		{order.Ready, "READY"},
		{order.OutForDelivery, "OUT_FOR_DELIVERY"},
		{order.Delivered, "DELIVERED"},
		{order.Cancelled, "CANCELLED"},
		{order.Unknown, "UNKNOWN"},
		{order.Status(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, st := range order.AllStatuses() {
		parsed, err := order.ParseStatus(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}

	_, err := order.ParseStatus("SHIPPED")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Graph(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Pending:        {order.Confirmed, order.Cancelled},
		order.Confirmed:      {order.Preparing, order.Cancelled},
		order.Preparing:      {order.Ready},
		order.Ready:          {order.OutForDelivery},
		order.OutForDelivery: {order.Delivered},
	}

	t.Run("should allow exactly the listed edges", func(t *testing.T) {
		for _, from := range order.AllStatuses() {
			for _, to := range order.AllStatuses() {
				expected := false
				for _, next := range allowed[from] {
					if next == to {
						expected = true
					}
				}
				assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("should treat delivered and cancelled as terminal", func(t *testing.T) {
		assert.True(t, order.Delivered.IsTerminal())
		assert.True(t, order.Cancelled.IsTerminal())
		for _, st := range []order.Status{order.Pending, order.Confirmed, order.Preparing, order.Ready, order.OutForDelivery} {
			assert.False(t, st.IsTerminal(), st.String())
		}
	})

	t.Run("should report missing edge as state conflict", func(t *testing.T) {
		err := order.Pending.ValidateTransition(order.Ready)
		require.ErrorIs(t, err, errs.ErrStateConflict)
		assert.Contains(t, err.Error(), "cannot move from PENDING to READY")
	})

	t.Run("should reject invalid target as validation error", func(t *testing.T) {
		err := order.Pending.ValidateTransition(order.Unknown)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should only allow cancelling before preparation", func(t *testing.T) {
		assert.True(t, order.Pending.IsCancellable())
		assert.True(t, order.Confirmed.IsCancellable())
		assert.False(t, order.Preparing.IsCancellable())
		assert.False(t, order.Ready.IsCancellable())
		assert.False(t, order.Cancelled.IsCancellable())
	})
}
