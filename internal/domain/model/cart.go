package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single mutable basket of a user.
type Cart struct {
	ID        int64
	UserID    int64
	Items     []CartItem
	CreatedAt time.Time
}

// CartItem is a line item; Product carries the live catalog row it references.
type CartItem struct {
	ID       int64
	CartID   int64
	Product  Product
	Quantity int
}

// Subtotal is the effective unit price multiplied by quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemByProduct finds the line item holding productID.
func (c *Cart) ItemByProduct(productID int64) (CartItem, bool) {
	for _, item := range c.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// Total sums line item subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount sums quantities across line items.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
