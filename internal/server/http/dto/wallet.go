package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ConnectWalletRequest struct {
	Address    string `json:"address"`
	WalletType string `json:"wallet_type"`
}

// VerifyWalletRequest carries a signed message proving address ownership.
type VerifyWalletRequest struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type WalletResponse struct {
	ID         string          `json:"id"`
	Address    string          `json:"address"`
	WalletType string          `json:"wallet_type"`
	IsVerified bool            `json:"is_verified"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

type WalletSummaryResponse struct {
	Wallet            WalletResponse `json:"wallet"`
	TotalTransactions int            `json:"total_transactions"`
	TotalPayments     int            `json:"total_payments"`
	PendingPayments   int            `json:"pending_payments"`
}

type TransactionResponse struct {
	ID                string           `json:"id"`
	Type              string           `json:"transaction_type"`
	Amount            decimal.Decimal  `json:"amount"`
	FromAddress       string           `json:"from_address"`
	ToAddress         string           `json:"to_address"`
	Hash              string           `json:"transaction_hash"`
	Status            string           `json:"status"`
	GasFee            *decimal.Decimal `json:"gas_fee,omitempty"`
	BlockNumber       *int64           `json:"block_number,omitempty"`
	ConfirmationCount int64            `json:"confirmation_count"`
	CreatedAt         time.Time        `json:"created_at"`
}

type WalletPaymentResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	USDAmount     decimal.Decimal `json:"usd_amount"`
	Status        string          `json:"status"`
	Hash          string          `json:"transaction_hash,omitempty"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InitiatePaymentRequest starts a wallet payment for an order reference.
type InitiatePaymentRequest struct {
	OrderID   string          `json:"order_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	USDAmount decimal.Decimal `json:"usd_amount"`
}

// SetBalanceRequest records an on-chain balance observed at BlockNumber.
type SetBalanceRequest struct {
	Balance     decimal.Decimal `json:"balance"`
	BlockNumber int64           `json:"block_number"`
}

// PaymentWebhookRequest is a verdict delivered by an external verifier.
type PaymentWebhookRequest struct {
	TransactionHash string `json:"transaction_hash"`
	Confirmed       bool   `json:"confirmed"`
	BlockNumber     int64  `json:"block_number"`
	Confirmations   int64  `json:"confirmations"`
}
