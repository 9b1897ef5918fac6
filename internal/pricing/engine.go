package pricing

import (
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "₹"

var hundred = decimal.NewFromInt(100)

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice decimal.Decimal
}

// Rules holds the storefront pricing constants.
type Rules struct {
	// MinSubtotal is the smallest subtotal that qualifies for the coupon discount.
	MinSubtotal decimal.Decimal
	// Percent is the coupon discount as a percentage of the subtotal.
	Percent decimal.Decimal
	// DeliveryFee is charged once per non-empty order.
	DeliveryFee decimal.Decimal
}

// DefaultRules returns the canteen defaults: 20% off from 300, flat delivery of 10.
func DefaultRules() Rules {
	return NewRules(300, 20, 10)
}

// NewRules builds Rules from plain numbers.
func NewRules(minSubtotal, percent, deliveryFee float64) Rules {
	return Rules{
		MinSubtotal: decimal.NewFromFloat(minSubtotal),
		Percent:     decimal.NewFromFloat(percent),
		DeliveryFee: decimal.NewFromFloat(deliveryFee),
	}
}

// Eligible reports whether subtotal reaches the coupon threshold.
func (r Rules) Eligible(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(r.MinSubtotal)
}

// Remaining returns how much must be added to subtotal to reach the threshold.
func (r Rules) Remaining(subtotal decimal.Decimal) decimal.Decimal {
	missing := r.MinSubtotal.Sub(subtotal)
	if missing.IsNegative() {
		return decimal.Zero
	}
	return missing
}

// Snapshot aggregates computed pricing components. It is derived on every read.
type Snapshot struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	Eligible    bool
}

// Subtotal sums price times quantity over all items with a positive quantity.
func Subtotal(items []Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return subtotal
}

// Compute calculates cart totals. applied tells whether the coupon is currently
// active; the discount is only granted while the subtotal stays eligible.
func Compute(items []Item, applied bool, r Rules) Snapshot {
	subtotal := Subtotal(items)
	eligible := r.Eligible(subtotal)

	discount := decimal.Zero
	if applied && eligible {
		discount = subtotal.Mul(r.Percent).Div(hundred)
	}
	fee := decimal.Zero
	if subtotal.IsPositive() {
		fee = r.DeliveryFee
	}
	total := subtotal.Sub(discount).Add(fee)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Snapshot{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: fee,
		Total:       total,
		Eligible:    eligible,
	}
}
