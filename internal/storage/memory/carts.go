package memory

import (
	"context"
	"sort"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

type cartRepository struct{ session }

func (d *state) loadCart(row cartRow) *model.Cart {
	cart := &model.Cart{ID: row.ID, UserID: row.UserID, CreatedAt: row.CreatedAt}
	for _, item := range d.cartItems {
		if item.CartID != row.ID {
			continue
		}
		cart.Items = append(cart.Items, model.CartItem{
			ID:       item.ID,
			CartID:   item.CartID,
			Product:  d.products[item.ProductID],
			Quantity: item.Quantity,
		})
	}
	sort.Slice(cart.Items, func(i, j int) bool { return cart.Items[i].ID < cart.Items[j].ID })
	return cart
}

func (d *state) cartByUser(userID int64) (cartRow, bool) {
	for _, c := range d.carts {
		if c.UserID == userID {
			return c, true
		}
	}
	return cartRow{}, false
}

func (r *cartRepository) GetByUser(_ context.Context, userID int64) (*model.Cart, error) {
	var out *model.Cart
	err := r.with(func(d *state) error {
		row, ok := d.cartByUser(userID)
		if !ok {
			return domainErrors.ErrNotFound
		}
		out = d.loadCart(row)
		return nil
	})
	return out, err
}

// LockByUser is GetByUser: WithinTransaction already holds the store lock.
func (r *cartRepository) LockByUser(ctx context.Context, userID int64) (*model.Cart, error) {
	return r.GetByUser(ctx, userID)
}

func (r *cartRepository) GetOrCreate(_ context.Context, userID int64) (*model.Cart, error) {
	var out *model.Cart
	err := r.with(func(d *state) error {
		row, ok := d.cartByUser(userID)
		if !ok {
			row = cartRow{ID: d.next("carts"), UserID: userID, CreatedAt: r.now()}
			d.carts[row.ID] = row
		}
		out = d.loadCart(row)
		return nil
	})
	return out, err
}

func (r *cartRepository) SetQuantity(_ context.Context, cartID, productID int64, quantity int) error {
	return r.with(func(d *state) error {
		if _, ok := d.products[productID]; !ok {
			return domainErrors.ErrNotFound
		}
		for id, item := range d.cartItems {
			if item.CartID == cartID && item.ProductID == productID {
				item.Quantity = quantity
				d.cartItems[id] = item
				return nil
			}
		}
		id := d.next("cart_items")
		d.cartItems[id] = cartItemRow{ID: id, CartID: cartID, ProductID: productID, Quantity: quantity}
		return nil
	})
}

func (r *cartRepository) GetItem(_ context.Context, cartID, itemID int64) (*model.CartItem, error) {
	var out *model.CartItem
	err := r.with(func(d *state) error {
		item, ok := d.cartItems[itemID]
		if !ok || item.CartID != cartID {
			return domainErrors.ErrNotFound
		}
		out = &model.CartItem{ID: item.ID, CartID: item.CartID, Product: d.products[item.ProductID], Quantity: item.Quantity}
		return nil
	})
	return out, err
}

func (r *cartRepository) UpdateItem(_ context.Context, cartID, itemID int64, quantity int) error {
	return r.with(func(d *state) error {
		item, ok := d.cartItems[itemID]
		if !ok || item.CartID != cartID {
			return domainErrors.ErrNotFound
		}
		item.Quantity = quantity
		d.cartItems[itemID] = item
		return nil
	})
}

func (r *cartRepository) DeleteItem(_ context.Context, cartID, itemID int64) error {
	return r.with(func(d *state) error {
		item, ok := d.cartItems[itemID]
		if !ok || item.CartID != cartID {
			return domainErrors.ErrNotFound
		}
		delete(d.cartItems, itemID)
		return nil
	})
}

func (r *cartRepository) Clear(_ context.Context, cartID int64) error {
	return r.with(func(d *state) error {
		for id, item := range d.cartItems {
			if item.CartID == cartID {
				delete(d.cartItems, id)
			}
		}
		return nil
	})
}
