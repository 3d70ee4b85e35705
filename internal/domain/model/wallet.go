package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletType string

const (
	WalletTypeEthereum      WalletType = "ethereum"
	WalletTypeMetaMask      WalletType = "metamask"
	WalletTypeWalletConnect WalletType = "walletconnect"
	WalletTypeOther         WalletType = "other"
)

// ParseWalletType defaults to MetaMask for an empty value.
func ParseWalletType(s string) (WalletType, bool) {
	switch WalletType(strings.ToLower(s)) {
	case "":
		return WalletTypeMetaMask, true
	case WalletTypeEthereum, WalletTypeMetaMask, WalletTypeWalletConnect, WalletTypeOther:
		return WalletType(strings.ToLower(s)), true
	}
	return "", false
}

// UnknownWalletAddress is stored for wallets created at checkout without a declared
// address; it is exempt from address uniqueness.
const UnknownWalletAddress = "unknown"

// Wallet is the single blockchain wallet a user may hold.
type Wallet struct {
	ID         uuid.UUID
	UserID     int64
	Address    string
	Type       WalletType
	IsVerified bool
	VerifiedAt *time.Time
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Cryptocurrency is a supported payment asset.
type Cryptocurrency struct {
	ID       int64
	Symbol   string
	Name     string
	Decimals int
	IsActive bool
}

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeReward     TransactionType = "reward"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// WalletTransaction mirrors an on-chain transaction observed for a wallet.
type WalletTransaction struct {
	ID                uuid.UUID
	WalletID          uuid.UUID
	Type              TransactionType
	CurrencyID        int64
	Amount            decimal.Decimal
	FromAddress       string
	ToAddress         string
	Hash              string
	Status            TransactionStatus
	GasFee            *decimal.Decimal
	BlockNumber       *int64
	ConfirmationCount int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type WalletPaymentStatus string

const (
	WalletPaymentPending   WalletPaymentStatus = "pending"
	WalletPaymentConfirmed WalletPaymentStatus = "confirmed"
	WalletPaymentFailed    WalletPaymentStatus = "failed"
)

// WalletPayment records an amount paid from a wallet against an order reference.
// OrderRef is a free-form string, not a foreign key.
type WalletPayment struct {
	ID            uuid.UUID
	WalletID      uuid.UUID
	OrderRef      string
	CurrencyID    int64
	Amount        decimal.Decimal
	USDAmount     decimal.Decimal
	Status        WalletPaymentStatus
	Hash          string
	TransactionID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type BlockchainPaymentStatus string

const (
	BlockchainPaymentInitiated           BlockchainPaymentStatus = "initiated"
	BlockchainPaymentPendingConfirmation BlockchainPaymentStatus = "pending_confirmation"
	BlockchainPaymentConfirmed           BlockchainPaymentStatus = "confirmed"
	BlockchainPaymentFailed              BlockchainPaymentStatus = "failed"
	BlockchainPaymentExpired             BlockchainPaymentStatus = "expired"
)

// Open reports whether the payment is still within its window.
func (s BlockchainPaymentStatus) Open() bool {
	return s == BlockchainPaymentInitiated || s == BlockchainPaymentPendingConfirmation
}

// SettleableFrom lists the states a chain verdict may move a payment out of.
// An expired payment still settles when its transaction lands late.
var SettleableFrom = []BlockchainPaymentStatus{
	BlockchainPaymentInitiated,
	BlockchainPaymentPendingConfirmation,
	BlockchainPaymentExpired,
}

// BlockchainPayment ties one order to one wallet payment.
type BlockchainPayment struct {
	ID              uuid.UUID
	OrderID         int64
	WalletPaymentID uuid.UUID
	Status          BlockchainPaymentStatus
	InitiatedAt     time.Time
	ConfirmedAt     *time.Time
	ExpiresAt       time.Time
	UpdatedAt       time.Time
}

// IsExpired reports whether the payment window has passed at now.
func (p BlockchainPayment) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Receipt is a mined transaction as reported by a chain client.
type Receipt struct {
	Hash              string
	BlockNumber       int64
	GasUsed           uint64
	EffectiveGasPrice decimal.Decimal
	Succeeded         bool
}

var weiPerEther = decimal.New(1, 18)

// GasFee converts gas used times effective gas price from wei to ether.
func (r Receipt) GasFee() decimal.Decimal {
	return decimal.NewFromUint64(r.GasUsed).Mul(r.EffectiveGasPrice).Div(weiPerEther)
}

// WalletSummary aggregates wallet activity counters.
type WalletSummary struct {
	Wallet            Wallet
	TotalTransactions int
	TotalPayments     int
	PendingPayments   int
}
