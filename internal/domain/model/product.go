package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry with a mutable stock counter.
type Product struct {
	ID            int64
	Name          string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Inventory     int
	CreatedAt     time.Time
}

// EffectivePrice returns the discounted price when one is set.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}

// Address is a shipping or billing address owned by a user.
type Address struct {
	ID         int64
	UserID     int64
	FullName   string
	Street     string
	City       string
	PostalCode string
	Country    string
	CreatedAt  time.Time
}
