package usecase

import (
	"context"
	"fmt"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

// enqueue writes an outbox event through the transaction-bound factory.
func enqueue(ctx context.Context, f repository.Factory, eventType, aggregateID string, payload any) error {
	evt, err := model.NewEvent(eventType, aggregateID, payload)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	if err := f.Outbox().Enqueue(ctx, evt); err != nil {
		return fmt.Errorf("enqueue %s event: %w", eventType, err)
	}
	return nil
}

type orderEvent struct {
	OrderID int64  `json:"order_id"`
	UserID  int64  `json:"user_id"`
	Status  string `json:"status"`
	Total   string `json:"total_amount,omitempty"`
}

type paymentEvent struct {
	OrderID         int64  `json:"order_id"`
	PaymentID       string `json:"payment_id"`
	TransactionHash string `json:"transaction_hash"`
	Status          string `json:"status"`
	Amount          string `json:"amount,omitempty"`
}
