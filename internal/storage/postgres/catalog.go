package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

const productColumns = `id, name, price, discount_price, inventory, created_at`

type productRepository struct {
	db querier
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func scanProduct(row pgx.Row, dest *model.Product, extra ...any) error {
	var discount decimal.NullDecimal
	targets := append(extra, &dest.ID, &dest.Name, &dest.Price, &discount, &dest.Inventory, &dest.CreatedAt)
	if err := row.Scan(targets...); err != nil {
		return err
	}
	dest.DiscountPrice = decimalPtr(discount)
	return nil
}

func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (name, price, discount_price, inventory) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, product.Name, product.Price, nullDecimal(product.DiscountPrice), product.Inventory).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	var p model.Product
	if err := scanProduct(r.db.QueryRow(ctx, query, id), &p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) Debit(ctx context.Context, productID int64, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, domainErrors.Invalid("quantity", "must be greater than 0")
	}
	const query = `UPDATE products SET inventory = inventory - $2 WHERE id=$1 AND inventory >= $2`
	tag, err := r.db.Exec(ctx, query, productID, quantity)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	return false, exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, productID)
}

func (r *productRepository) Credit(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return domainErrors.Invalid("quantity", "must be greater than 0")
	}
	const query = `UPDATE products SET inventory = inventory + $2 WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

const addressColumns = `id, user_id, full_name, street, city, postal_code, country, created_at`

type addressRepository struct {
	db querier
}

func scanAddress(row pgx.Row, a *model.Address) error {
	return row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Street, &a.City, &a.PostalCode, &a.Country, &a.CreatedAt)
}

func (r *addressRepository) Create(ctx context.Context, address model.Address) (*model.Address, error) {
	const query = `INSERT INTO addresses (user_id, full_name, street, city, postal_code, country)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, address.UserID, address.FullName, address.Street, address.City, address.PostalCode, address.Country).
		Scan(&address.ID, &address.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *addressRepository) GetForUser(ctx context.Context, id, userID int64) (*model.Address, error) {
	const query = `SELECT ` + addressColumns + ` FROM addresses WHERE id=$1 AND user_id=$2`
	var a model.Address
	if err := scanAddress(r.db.QueryRow(ctx, query, id, userID), &a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID int64) ([]model.Address, error) {
	const query = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Address
	for rows.Next() {
		var a model.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
