package memory

import (
	"context"
	"sort"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

type productRepository struct{ session }

func (r *productRepository) Create(_ context.Context, product model.Product) (*model.Product, error) {
	err := r.with(func(d *state) error {
		product.ID = d.next("products")
		product.CreatedAt = r.now()
		d.products[product.ID] = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByID(_ context.Context, id int64) (*model.Product, error) {
	var out *model.Product
	err := r.with(func(d *state) error {
		p, ok := d.products[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepository) List(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	err := r.with(func(d *state) error {
		for _, p := range d.products {
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *productRepository) Debit(_ context.Context, productID int64, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, domainErrors.Invalid("quantity", "must be greater than 0")
	}
	var ok bool
	err := r.with(func(d *state) error {
		p, found := d.products[productID]
		if !found {
			return domainErrors.ErrNotFound
		}
		if p.Inventory < quantity {
			return nil
		}
		p.Inventory -= quantity
		d.products[productID] = p
		ok = true
		return nil
	})
	return ok, err
}

func (r *productRepository) Credit(_ context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return domainErrors.Invalid("quantity", "must be greater than 0")
	}
	return r.with(func(d *state) error {
		p, found := d.products[productID]
		if !found {
			return domainErrors.ErrNotFound
		}
		p.Inventory += quantity
		d.products[productID] = p
		return nil
	})
}

type addressRepository struct{ session }

func (r *addressRepository) Create(_ context.Context, address model.Address) (*model.Address, error) {
	err := r.with(func(d *state) error {
		if _, ok := d.users[address.UserID]; !ok {
			return domainErrors.ErrNotFound
		}
		address.ID = d.next("addresses")
		address.CreatedAt = r.now()
		d.addresses[address.ID] = address
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) GetForUser(_ context.Context, id, userID int64) (*model.Address, error) {
	var out *model.Address
	err := r.with(func(d *state) error {
		a, ok := d.addresses[id]
		if !ok || a.UserID != userID {
			return domainErrors.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *addressRepository) ListByUser(_ context.Context, userID int64) ([]model.Address, error) {
	var out []model.Address
	err := r.with(func(d *state) error {
		for _, a := range d.addresses {
			if a.UserID == userID {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
