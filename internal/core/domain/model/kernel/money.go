package kernel

import (
	"fmt"

	"orderhub/internal/pkg/errs"
)

// Money is an amount in the smallest currency unit. All arithmetic is integer-only.
type Money int64

// NewMoney rejects negative amounts; prices, fees and totals are never negative.
func NewMoney(minorUnits int64) (Money, error) {
	if minorUnits < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", minorUnits))
	}
	return Money(minorUnits), nil
}

func (m Money) Add(other Money) Money {
	return m + other
}

func (m Money) Multiply(qty int) Money {
	return m * Money(qty)
}

// Percent returns pct percent of m, rounding half up.
func (m Money) Percent(pct int64) Money {
	return Money((int64(m)*pct + 50) / 100)
}

func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
}
