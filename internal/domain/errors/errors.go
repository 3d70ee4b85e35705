package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyExists             = errors.New("already exists")
	ErrNotFound                  = errors.New("not found")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrForbidden                 = errors.New("forbidden")
	ErrValidation                = errors.New("validation failed")
	ErrEmptyCart                 = errors.New("cannot create order from empty cart")
	ErrInsufficientStock         = errors.New("insufficient stock")
	ErrOrderNotCancellable       = errors.New("order cannot be cancelled")
	ErrInvalidStatus             = errors.New("invalid order status")
	ErrWalletNotVerified         = errors.New("wallet must be verified before making payments")
	ErrInsufficientWalletBalance = errors.New("insufficient wallet balance")
	ErrWalletAddressMismatch     = errors.New("wallet address does not match")
	ErrInvalidSignature          = errors.New("invalid wallet signature")
	ErrIdempotencyConflict       = errors.New("request with this idempotency key is in progress")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError names the entity that could not be resolved.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError.
func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Shortage describes one line item that cannot be served from current stock.
type Shortage struct {
	ProductID int64
	Product   string
	Available int
	InCart    int
	Requested int
}

func (s Shortage) String() string {
	if s.InCart > 0 {
		return fmt.Sprintf("Insufficient stock for %s. Available: %d, In cart: %d, Requested: %d", s.Product, s.Available, s.InCart, s.Requested)
	}
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", s.Product, s.Available, s.Requested)
}

// StockError lists every line item that failed the inventory check.
type StockError struct {
	Shortages []Shortage
}

func (e *StockError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

// Messages renders one human readable line per shortage.
func (e *StockError) Messages() []string {
	out := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		out = append(out, s.String())
	}
	return out
}

// WalletBalanceError reports the required and available wallet balance.
type WalletBalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *WalletBalanceError) Error() string {
	return fmt.Sprintf("Insufficient balance. Required: %s, Available: %s", e.Required.String(), e.Available.String())
}

func (e *WalletBalanceError) Is(target error) bool { return target == ErrInsufficientWalletBalance }

// OrderStatusError is returned when an order in a terminal status is cancelled.
type OrderStatusError struct {
	Status string
}

func (e *OrderStatusError) Error() string {
	return fmt.Sprintf("Cannot cancel order with status '%s'.", e.Status)
}

func (e *OrderStatusError) Is(target error) bool { return target == ErrOrderNotCancellable }
