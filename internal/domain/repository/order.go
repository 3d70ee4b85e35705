package repository

import (
	"context"

	"github.com/polkiloo/gencart/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create stores the order with its items and fills generated identifiers.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// SetStatus moves the order to status only when its current status is one of from.
	SetStatus(ctx context.Context, id int64, status model.OrderStatus, from ...model.OrderStatus) (bool, error)
	// MarkPaid sets payment_status and moves a pending order to processing.
	MarkPaid(ctx context.Context, id int64) error
}
