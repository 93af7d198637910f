package order

import (
	"fmt"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

const (
	MinItemQuantity = 1
	MaxItemQuantity = 100
)

// LineItem is one menu reference inside an order with the unit price the catalog
// quoted when the order was created.
type LineItem struct {
	menuItemID string
	quantity   int
	unitPrice  kernel.Money
}

// NewLineItem validates a line item. The unit price must come from the catalog.
func NewLineItem(menuItemID string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	menuItemID = strings.TrimSpace(menuItemID)
	if menuItemID == "" {
		return LineItem{}, errs.NewValueIsRequiredError("menuItemID")
	}
	if quantity < MinItemQuantity || quantity > MaxItemQuantity {
		return LineItem{}, errs.NewValueIsOutOfRangeError("quantity", quantity, MinItemQuantity, MaxItemQuantity)
	}
	if unitPrice < 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%d is negative", unitPrice))
	}
	return LineItem{menuItemID: menuItemID, quantity: quantity, unitPrice: unitPrice}, nil
}

func (li LineItem) MenuItemID() string {
	return li.menuItemID
}

func (li LineItem) Quantity() int {
	return li.quantity
}

func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// LineTotal is unitPrice × quantity.
func (li LineItem) LineTotal() kernel.Money {
	return li.unitPrice.Multiply(li.quantity)
}

// Subtotal sums the line totals of items.
func Subtotal(items []LineItem) kernel.Money {
	var sum kernel.Money
	for _, li := range items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}
