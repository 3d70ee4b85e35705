package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

const orderColumns = `id, user_id, shipping_address_id, billing_address_id, subtotal, shipping_cost, total_amount,
                   status, payment_status, created_at, updated_at`

type orderRepository struct {
	db querier
}

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.ShippingAddressID, &o.BillingAddressID, &o.Subtotal, &o.ShippingCost,
		&o.TotalAmount, &o.Status, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const insertOrder = `INSERT INTO orders (user_id, shipping_address_id, billing_address_id, subtotal, shipping_cost,
                   total_amount, status, payment_status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, insertOrder, order.UserID, order.ShippingAddressID, order.BillingAddressID,
		order.Subtotal, order.ShippingCost, order.TotalAmount, order.Status, order.PaymentStatus).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return translate(err)
	}

	const insertItem = `INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := r.db.QueryRow(ctx, insertItem, order.ID, item.ProductID, item.ProductName, item.Quantity, item.Price).Scan(&item.ID); err != nil {
			return translate(err)
		}
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var o model.Order
	if err := scanOrder(r.db.QueryRow(ctx, query, id), &o); err != nil {
		return nil, translate(err)
	}
	orders := []model.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.attachItems(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	const query = `SELECT id, order_id, product_id, product_name, quantity, price
                   FROM order_items WHERE order_id = ANY($1) ORDER BY id`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return err
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func (r *orderRepository) SetStatus(ctx context.Context, id int64, status model.OrderStatus, from ...model.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`
	args := []any{id, status}
	if len(from) > 0 {
		allowed := make([]string, len(from))
		for i, s := range from {
			allowed[i] = string(s)
		}
		query += ` AND status = ANY($3)`
		args = append(args, allowed)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	return false, exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id)
}

func (r *orderRepository) MarkPaid(ctx context.Context, id int64) error {
	const query = `UPDATE orders SET payment_status=TRUE,
                   status = CASE WHEN status=$2 THEN $3 ELSE status END,
                   updated_at=NOW()
                   WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id, model.OrderStatusPending, model.OrderStatusProcessing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
