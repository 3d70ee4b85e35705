package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

// CartUseCase manages the single mutable cart of each user.
type CartUseCase struct {
	store repository.Store
}

func NewCartUseCase(store repository.Store) *CartUseCase {
	return &CartUseCase{store: store}
}

// Get returns the caller's cart, creating an empty one on first access.
func (u *CartUseCase) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	return u.store.Carts().GetOrCreate(ctx, userID)
}

// AddItem adds quantity units of a product, merging with an existing line item.
// The merged quantity must fit into current inventory.
func (u *CartUseCase) AddItem(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	var cart *model.Cart
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		product, err := f.Products().GetByID(ctx, productID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.NotFound("product", productID)
		}
		if err != nil {
			return err
		}

		current, err := f.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		inCart := 0
		if item, ok := current.ItemByProduct(productID); ok {
			inCart = item.Quantity
		}
		// compared as a difference so huge requests cannot wrap around
		if quantity > product.Inventory-inCart {
			return &domainErrors.StockError{Shortages: []domainErrors.Shortage{{
				ProductID: product.ID,
				Product:   product.Name,
				Available: product.Inventory,
				InCart:    inCart,
				Requested: quantity,
			}}}
		}

		if err := f.Carts().SetQuantity(ctx, current.ID, productID, inCart+quantity); err != nil {
			return err
		}
		cart, err = f.Carts().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem replaces the quantity of an existing line item.
func (u *CartUseCase) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*model.Cart, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	var cart *model.Cart
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		current, err := f.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		item, err := f.Carts().GetItem(ctx, current.ID, itemID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.NotFound("cart item", itemID)
		}
		if err != nil {
			return err
		}
		if quantity > item.Product.Inventory {
			return &domainErrors.StockError{Shortages: []domainErrors.Shortage{{
				ProductID: item.Product.ID,
				Product:   item.Product.Name,
				Available: item.Product.Inventory,
				Requested: quantity,
			}}}
		}
		if err := f.Carts().UpdateItem(ctx, current.ID, itemID, quantity); err != nil {
			return err
		}
		cart, err = f.Carts().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes one line item from the caller's cart.
func (u *CartUseCase) RemoveItem(ctx context.Context, userID, itemID int64) (*model.Cart, error) {
	var cart *model.Cart
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		current, err := f.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		err = f.Carts().DeleteItem(ctx, current.ID, itemID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.NotFound("cart item", itemID)
		}
		if err != nil {
			return err
		}
		cart, err = f.Carts().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear removes every line item from the caller's cart.
func (u *CartUseCase) Clear(ctx context.Context, userID int64) (*model.Cart, error) {
	var cart *model.Cart
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		current, err := f.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		if err := f.Carts().Clear(ctx, current.ID); err != nil {
			return err
		}
		cart, err = f.Carts().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}
