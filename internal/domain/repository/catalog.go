package repository

import (
	"context"

	"github.com/polkiloo/gencart/internal/domain/model"
)

// ProductRepository describes persistence operations for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	// Debit decrements inventory only when at least quantity units remain.
	// It reports false when the product does not have enough stock.
	Debit(ctx context.Context, productID int64, quantity int) (bool, error)
	Credit(ctx context.Context, productID int64, quantity int) error
}

// AddressRepository scopes every lookup by owner.
type AddressRepository interface {
	Create(ctx context.Context, address model.Address) (*model.Address, error)
	GetForUser(ctx context.Context, id, userID int64) (*model.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Address, error)
}
