package order_test

import (
	"testing"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingPolicy_Quote(t *testing.T) {
	tests := []struct {
		name     string
		policy   order.PricingPolicy
		subtotal kernel.Money
		expected order.Quote
	}{
		{
			name:     "default policy charges the delivery fee below the threshold",
			policy:   order.DefaultPricingPolicy(),
			subtotal: 250,
			expected: order.Quote{Subtotal: 250, DeliveryFee: 200, Tax: 0, Total: 450},
		},
		{
			name:     "default policy waives the fee at the threshold",
			policy:   order.DefaultPricingPolicy(),
			subtotal: 5000,
			expected: order.Quote{Subtotal: 5000, DeliveryFee: 0, Tax: 0, Total: 5000},
		},
		{
			name:     "tax rounds half up",
			policy:   order.PricingPolicy{DeliveryFee: 100, TaxPercent: 16},
			subtotal: 1003,
			expected: order.Quote{Subtotal: 1003, DeliveryFee: 100, Tax: 160, Total: 1263},
		},
		{
			name:     "zero threshold never waives",
			policy:   order.PricingPolicy{DeliveryFee: 150},
			subtotal: 1_000_000,
			expected: order.Quote{Subtotal: 1_000_000, DeliveryFee: 150, Tax: 0, Total: 1_000_150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.policy.Quote(tt.subtotal))
		})
	}
}

func TestPricingPolicy_Validate(t *testing.T) {
	require.NoError(t, order.DefaultPricingPolicy().Validate())
	require.ErrorIs(t, order.PricingPolicy{DeliveryFee: -1}.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, order.PricingPolicy{TaxPercent: 101}.Validate(), errs.ErrValueIsOutOfRange)
}

func TestNewLineItem(t *testing.T) {
	li, err := order.NewLineItem("pizza", 3, 120)
	require.NoError(t, err)
	assert.Equal(t, kernel.Money(360), li.LineTotal())

	_, err = order.NewLineItem("pizza", 0, 120)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = order.NewLineItem("pizza", 101, 120)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = order.NewLineItem(" ", 1, 120)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := order.ParsePaymentMethod("MPESA")
	require.NoError(t, err)
	assert.Equal(t, order.PaymentMpesa, m)

	_, err = order.ParsePaymentMethod("cheque")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewOrderNumber(t *testing.T) {
	n := order.NewOrderNumber(mustTime(t, "2026-01-15T10:00:00Z"))
	assert.Regexp(t, `^ORD-20260115-[0-9A-F]{8}$`, n)
}
