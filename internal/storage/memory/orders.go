package memory

import (
	"context"
	"slices"
	"sort"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

type orderRepository struct{ session }

func (r *orderRepository) Create(_ context.Context, order *model.Order) error {
	return r.with(func(d *state) error {
		now := r.now()
		order.ID = d.next("orders")
		order.CreatedAt = now
		order.UpdatedAt = now
		for i := range order.Items {
			order.Items[i].ID = d.next("order_items")
			order.Items[i].OrderID = order.ID
		}
		stored := *order
		stored.Items = slices.Clone(order.Items)
		d.orders[order.ID] = stored
		return nil
	})
}

func (r *orderRepository) GetByID(_ context.Context, id int64) (*model.Order, error) {
	var out *model.Order
	err := r.with(func(d *state) error {
		o, ok := d.orders[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		o.Items = slices.Clone(o.Items)
		out = &o
		return nil
	})
	return out, err
}

func (r *orderRepository) list(match func(model.Order) bool) ([]model.Order, error) {
	var out []model.Order
	err := r.with(func(d *state) error {
		for _, o := range d.orders {
			if match(o) {
				o.Items = slices.Clone(o.Items)
				out = append(out, o)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

func (r *orderRepository) ListByUser(_ context.Context, userID int64) ([]model.Order, error) {
	return r.list(func(o model.Order) bool { return o.UserID == userID })
}

func (r *orderRepository) ListAll(_ context.Context) ([]model.Order, error) {
	return r.list(func(model.Order) bool { return true })
}

func (r *orderRepository) SetStatus(_ context.Context, id int64, status model.OrderStatus, from ...model.OrderStatus) (bool, error) {
	var changed bool
	err := r.with(func(d *state) error {
		o, ok := d.orders[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		if len(from) > 0 && !slices.Contains(from, o.Status) {
			return nil
		}
		o.Status = status
		o.UpdatedAt = r.now()
		d.orders[id] = o
		changed = true
		return nil
	})
	return changed, err
}

func (r *orderRepository) MarkPaid(_ context.Context, id int64) error {
	return r.with(func(d *state) error {
		o, ok := d.orders[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		o.PaymentStatus = true
		if o.Status == model.OrderStatusPending {
			o.Status = model.OrderStatusProcessing
		}
		o.UpdatedAt = r.now()
		d.orders[id] = o
		return nil
	})
}
