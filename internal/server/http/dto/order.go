package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest places an order from the caller's cart.
type CheckoutRequest struct {
	ShippingAddressID int64  `json:"shipping_address_id"`
	BillingAddressID  int64  `json:"billing_address_id"`
	PaymentMethod     string `json:"payment_method"`
	TransactionHash   string `json:"blockchain_transaction_hash"`
	Network           string `json:"blockchain_network"`
	WalletAddress     string `json:"wallet_address"`
}

type OrderItemResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse describes an order with its immutable line items.
type OrderResponse struct {
	ID                int64               `json:"id"`
	UserID            int64               `json:"user_id"`
	Status            string              `json:"status"`
	PaymentStatus     bool                `json:"payment_status"`
	ShippingAddressID int64               `json:"shipping_address_id"`
	BillingAddressID  int64               `json:"billing_address_id"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	ShippingCost      decimal.Decimal     `json:"shipping_cost"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	Items             []OrderItemResponse `json:"items"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// StatusUpdateRequest is the admin payload for an order status change.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// BlockchainPaymentResponse describes the confirmation state of an order payment.
type BlockchainPaymentResponse struct {
	ID              string     `json:"id"`
	OrderID         int64      `json:"order_id"`
	WalletPaymentID string     `json:"wallet_payment_id"`
	Status          string     `json:"status"`
	InitiatedAt     time.Time  `json:"initiated_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
}
