package usecase

import "github.com/shopspring/decimal"

// ShippingPolicy charges a flat surcharge below Threshold and nothing at or above it.
type ShippingPolicy struct {
	Threshold decimal.Decimal
	Surcharge decimal.Decimal
}

// Quote returns the shipping cost and order total for subtotal.
func (p ShippingPolicy) Quote(subtotal decimal.Decimal) (shipping, total decimal.Decimal) {
	shipping = decimal.Zero
	if subtotal.LessThan(p.Threshold) {
		shipping = p.Surcharge
	}
	return shipping, subtotal.Add(shipping)
}
