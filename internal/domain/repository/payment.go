package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/gencart/internal/domain/model"
)

// PaymentRepository describes persistence operations for blockchain payments.
type PaymentRepository interface {
	// Create fails with ErrAlreadyExists when the order already has a payment.
	Create(ctx context.Context, payment *model.BlockchainPayment) error
	GetByOrder(ctx context.Context, orderID int64) (*model.BlockchainPayment, error)
	GetByWalletPayment(ctx context.Context, walletPaymentID uuid.UUID) (*model.BlockchainPayment, error)
	// SetStatus moves the payment only when its current status is one of from.
	// confirmedAt is stored when non-nil.
	SetStatus(ctx context.Context, id uuid.UUID, status model.BlockchainPaymentStatus, confirmedAt *time.Time, from ...model.BlockchainPaymentStatus) (bool, error)
}

// OutboxRepository stores events until the relay publishes them.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event model.Event) error
	FetchPending(ctx context.Context, limit int) ([]model.Event, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
}
