package repository

import "context"

type ReservationState int

const (
	// ReservationAcquired means the caller owns the key and should run the request.
	ReservationAcquired ReservationState = iota
	// ReservationInFlight means another request holds the key.
	ReservationInFlight
	// ReservationCompleted means the key already produced OrderID.
	ReservationCompleted
)

type Reservation struct {
	State   ReservationState
	OrderID int64
}

// IdempotencyStore tracks checkout idempotency keys.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (Reservation, error)
	Complete(ctx context.Context, key string, orderID int64) error
	Release(ctx context.Context, key string) error
}
