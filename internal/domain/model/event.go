package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
	EventPaymentInitiated   = "payment.initiated"
	EventPaymentConfirmed   = "payment.confirmed"
	EventPaymentFailed      = "payment.failed"
	EventPaymentExpired     = "payment.expired"
)

// Event is an outbox record written in the same transaction as the state change it describes.
type Event struct {
	ID          int64
	EventID     uuid.UUID
	Type        string
	AggregateID string
	Payload     json.RawMessage
	CreatedAt   time.Time
	SentAt      *time.Time
}

// NewEvent marshals payload into an unsent outbox event.
func NewEvent(eventType, aggregateID string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		EventID:     uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		Payload:     data,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
