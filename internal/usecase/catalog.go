package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

// CatalogUseCase serves the product catalog and the customer address book.
type CatalogUseCase struct {
	store repository.Store
}

func NewCatalogUseCase(store repository.Store) *CatalogUseCase {
	return &CatalogUseCase{store: store}
}

func (u *CatalogUseCase) Products(ctx context.Context) ([]model.Product, error) {
	return u.store.Products().List(ctx)
}

func (u *CatalogUseCase) Product(ctx context.Context, id int64) (*model.Product, error) {
	p, err := u.store.Products().GetByID(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.NotFound("product", id)
	}
	return p, err
}

// CreateProduct is restricted to staff.
func (u *CatalogUseCase) CreateProduct(ctx context.Context, principal model.Principal, product model.Product) (*model.Product, error) {
	if !principal.IsStaff {
		return nil, domainErrors.ErrForbidden
	}
	if err := required("name", product.Name); err != nil {
		return nil, err
	}
	if product.Price.IsNegative() {
		return nil, domainErrors.Invalid("price", "must not be negative")
	}
	if product.DiscountPrice != nil && (product.DiscountPrice.IsNegative() || product.DiscountPrice.GreaterThan(product.Price)) {
		return nil, domainErrors.Invalid("discount_price", "must be between 0 and price")
	}
	if product.Inventory < 0 {
		return nil, domainErrors.Invalid("inventory", "must not be negative")
	}
	return u.store.Products().Create(ctx, product)
}

func (u *CatalogUseCase) AddAddress(ctx context.Context, userID int64, address model.Address) (*model.Address, error) {
	checks := []struct{ field, value string }{
		{"full_name", address.FullName},
		{"street", address.Street},
		{"city", address.City},
		{"postal_code", address.PostalCode},
		{"country", address.Country},
	}
	for _, c := range checks {
		if err := required(c.field, c.value); err != nil {
			return nil, err
		}
	}
	address.UserID = userID
	return u.store.Addresses().Create(ctx, address)
}

func (u *CatalogUseCase) Addresses(ctx context.Context, userID int64) ([]model.Address, error) {
	return u.store.Addresses().ListByUser(ctx, userID)
}
