package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

const cartItemsQuery = `SELECT ci.id, ci.cart_id, ci.quantity,
                   p.id, p.name, p.price, p.discount_price, p.inventory, p.created_at
                   FROM cart_items ci JOIN products p ON p.id = ci.product_id`

type cartRepository struct {
	db querier
}

func (r *cartRepository) loadItems(ctx context.Context, cart *model.Cart) error {
	rows, err := r.db.Query(ctx, cartItemsQuery+` WHERE ci.cart_id=$1 ORDER BY ci.id`, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		if err := scanProduct(rows, &item.Product, &item.ID, &item.CartID, &item.Quantity); err != nil {
			return err
		}
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}

const cartByUserQuery = `SELECT id, user_id, created_at FROM carts WHERE user_id=$1`

func (r *cartRepository) GetByUser(ctx context.Context, userID int64) (*model.Cart, error) {
	return r.byUser(ctx, cartByUserQuery, userID)
}

func (r *cartRepository) LockByUser(ctx context.Context, userID int64) (*model.Cart, error) {
	return r.byUser(ctx, cartByUserQuery+` FOR UPDATE`, userID)
}

func (r *cartRepository) byUser(ctx context.Context, query string, userID int64) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.QueryRow(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		return nil, translate(err)
	}
	if err := r.loadItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetOrCreate(ctx context.Context, userID int64) (*model.Cart, error) {
	const query = `INSERT INTO carts (user_id) VALUES ($1)
                   ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
                   RETURNING id, user_id, created_at`
	var cart model.Cart
	if err := r.db.QueryRow(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		return nil, translate(err)
	}
	if err := r.loadItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, cartID, productID int64, quantity int) error {
	const query = `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)
                   ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity`
	_, err := r.db.Exec(ctx, query, cartID, productID, quantity)
	return translate(err)
}

func (r *cartRepository) GetItem(ctx context.Context, cartID, itemID int64) (*model.CartItem, error) {
	var item model.CartItem
	row := r.db.QueryRow(ctx, cartItemsQuery+` WHERE ci.cart_id=$1 AND ci.id=$2`, cartID, itemID)
	if err := scanProduct(row, &item.Product, &item.ID, &item.CartID, &item.Quantity); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *cartRepository) UpdateItem(ctx context.Context, cartID, itemID int64, quantity int) error {
	tag, err := r.db.Exec(ctx, `UPDATE cart_items SET quantity=$3 WHERE cart_id=$1 AND id=$2`, cartID, itemID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1 AND id=$2`, cartID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, cartID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID)
	return err
}
