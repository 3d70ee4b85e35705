package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AddCartItemRequest keeps quantity raw so that strings and non-integers are
// rejected with a field error instead of a bind failure.
type AddCartItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

type CartItemResponse struct {
	ID       int64           `json:"id"`
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartResponse is the full cart snapshot returned by every cart operation.
type CartResponse struct {
	ID        int64              `json:"id"`
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     decimal.Decimal    `json:"total"`
}
