package order

import (
	"fmt"
	"strings"

	"orderhub/internal/pkg/errs"
)

// PaymentMethod is how the customer intends to pay.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCard  PaymentMethod = "card"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentCash, PaymentMpesa, PaymentCard:
		return m, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not supported", s))
	}
}

// PaymentStatus is fed by the external payment gateway. It never drives the order status.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch ps := PaymentStatus(s); ps {
	case PaymentPending, PaymentCompleted:
		return ps, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is unknown", s))
	}
}
