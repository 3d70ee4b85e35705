package dto

import "github.com/shopspring/decimal"

// ProductResponse describes a catalog entry.
type ProductResponse struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Inventory      int              `json:"inventory"`
}

// CreateProductRequest is the staff payload for a new product.
type CreateProductRequest struct {
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Inventory     int              `json:"inventory"`
}

// AddressRequest creates an address for the caller.
type AddressRequest struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type AddressResponse struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
