package order

import (
	"fmt"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

const (
	DefaultDeliveryFee           kernel.Money = 200
	DefaultFreeDeliveryThreshold kernel.Money = 5000
	DefaultTaxPercent            int64        = 0
)

// PricingPolicy is the one fee formula applied to every order:
//
//	fee   = DeliveryFee, or 0 when subtotal >= FreeDeliveryThreshold
//	tax   = TaxPercent% of subtotal, rounded half up
//	total = subtotal + fee + tax
//
// A zero FreeDeliveryThreshold disables the waiver.
type PricingPolicy struct {
	DeliveryFee           kernel.Money
	FreeDeliveryThreshold kernel.Money
	TaxPercent            int64
}

// Quote is the breakdown of an order total.
type Quote struct {
	Subtotal    kernel.Money
	DeliveryFee kernel.Money
	Tax         kernel.Money
	Total       kernel.Money
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		DeliveryFee:           DefaultDeliveryFee,
		FreeDeliveryThreshold: DefaultFreeDeliveryThreshold,
		TaxPercent:            DefaultTaxPercent,
	}
}

func (p PricingPolicy) Validate() error {
	if p.DeliveryFee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("deliveryFee", fmt.Errorf("%d is negative", p.DeliveryFee))
	}
	if p.FreeDeliveryThreshold < 0 {
		return errs.NewValueIsInvalidErrorWithCause("freeDeliveryThreshold",
			fmt.Errorf("%d is negative", p.FreeDeliveryThreshold))
	}
	if p.TaxPercent < 0 || p.TaxPercent > 100 {
		return errs.NewValueIsOutOfRangeError("taxPercent", p.TaxPercent, 0, 100)
	}
	return nil
}

// Fee returns the delivery fee charged for a subtotal.
func (p PricingPolicy) Fee(subtotal kernel.Money) kernel.Money {
	if p.FreeDeliveryThreshold > 0 && subtotal >= p.FreeDeliveryThreshold {
		return 0
	}
	return p.DeliveryFee
}

// Quote prices a subtotal. It is a pure function of the policy and its input.
func (p PricingPolicy) Quote(subtotal kernel.Money) Quote {
	fee := p.Fee(subtotal)
	tax := subtotal.Percent(p.TaxPercent)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}
