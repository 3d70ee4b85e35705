package repository

import (
	"context"

	"github.com/polkiloo/gencart/internal/domain/model"
)

// CartRepository describes persistence operations for carts and their line items.
// Loaded carts carry the live product row on every item.
type CartRepository interface {
	GetByUser(ctx context.Context, userID int64) (*model.Cart, error)
	// LockByUser loads the cart like GetByUser and holds its row until the
	// surrounding transaction ends, so cart edits wait for checkout.
	LockByUser(ctx context.Context, userID int64) (*model.Cart, error)
	GetOrCreate(ctx context.Context, userID int64) (*model.Cart, error)
	// SetQuantity stores quantity for productID, inserting the line item when absent.
	SetQuantity(ctx context.Context, cartID, productID int64, quantity int) error
	GetItem(ctx context.Context, cartID, itemID int64) (*model.CartItem, error)
	UpdateItem(ctx context.Context, cartID, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
}
