package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/gencart/internal/domain/model"
)

// TransactionFilter narrows wallet transaction listings; empty fields match everything.
type TransactionFilter struct {
	Status model.TransactionStatus
	Type   model.TransactionType
}

// WalletRepository describes persistence operations for wallets, currencies,
// wallet transactions and wallet payments.
type WalletRepository interface {
	Create(ctx context.Context, wallet model.Wallet) (*model.Wallet, error)
	GetByUser(ctx context.Context, userID int64) (*model.Wallet, error)
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	// EnsureCurrency returns the currency with the given symbol, creating it when missing.
	EnsureCurrency(ctx context.Context, currency model.Cryptocurrency) (*model.Cryptocurrency, error)

	CreateTransaction(ctx context.Context, tx *model.WalletTransaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.WalletTransaction, error)
	GetTransactionByHash(ctx context.Context, hash string) (*model.WalletTransaction, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, filter TransactionFilter) ([]model.WalletTransaction, error)
	ListPendingTransactions(ctx context.Context, limit int) ([]model.WalletTransaction, error)
	RecordProgress(ctx context.Context, id uuid.UUID, blockNumber, confirmations int64, gasFee decimal.Decimal) error
	// SetTransactionStatus moves the transaction only when its current status is one of from.
	SetTransactionStatus(ctx context.Context, id uuid.UUID, status model.TransactionStatus, from ...model.TransactionStatus) (bool, error)

	CreatePayment(ctx context.Context, payment *model.WalletPayment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*model.WalletPayment, error)
	GetPaymentByTransaction(ctx context.Context, txID uuid.UUID) (*model.WalletPayment, error)
	ListPayments(ctx context.Context, walletID uuid.UUID, status model.WalletPaymentStatus) ([]model.WalletPayment, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status model.WalletPaymentStatus, from ...model.WalletPaymentStatus) (bool, error)
}
