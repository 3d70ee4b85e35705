package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

type paymentRepository struct{ session }

func (r *paymentRepository) Create(_ context.Context, payment *model.BlockchainPayment) error {
	return r.with(func(d *state) error {
		for _, p := range d.blockchain {
			if p.OrderID == payment.OrderID {
				return domainErrors.ErrAlreadyExists
			}
		}
		if payment.ID == uuid.Nil {
			payment.ID = uuid.New()
		}
		payment.UpdatedAt = r.now()
		d.blockchain[payment.ID] = *payment
		return nil
	})
}

func (r *paymentRepository) find(match func(model.BlockchainPayment) bool) (*model.BlockchainPayment, error) {
	var out *model.BlockchainPayment
	err := r.with(func(d *state) error {
		for _, p := range d.blockchain {
			if match(p) {
				out = &p
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return out, err
}

func (r *paymentRepository) GetByOrder(_ context.Context, orderID int64) (*model.BlockchainPayment, error) {
	return r.find(func(p model.BlockchainPayment) bool { return p.OrderID == orderID })
}

func (r *paymentRepository) GetByWalletPayment(_ context.Context, walletPaymentID uuid.UUID) (*model.BlockchainPayment, error) {
	return r.find(func(p model.BlockchainPayment) bool { return p.WalletPaymentID == walletPaymentID })
}

func (r *paymentRepository) SetStatus(_ context.Context, id uuid.UUID, status model.BlockchainPaymentStatus, confirmedAt *time.Time, from ...model.BlockchainPaymentStatus) (bool, error) {
	var changed bool
	err := r.with(func(d *state) error {
		p, ok := d.blockchain[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		if len(from) > 0 && !slices.Contains(from, p.Status) {
			return nil
		}
		p.Status = status
		if confirmedAt != nil {
			at := *confirmedAt
			p.ConfirmedAt = &at
		}
		p.UpdatedAt = r.now()
		d.blockchain[id] = p
		changed = true
		return nil
	})
	return changed, err
}

type outboxRepository struct{ session }

func (r *outboxRepository) Enqueue(_ context.Context, event model.Event) error {
	return r.with(func(d *state) error {
		event.ID = d.next("outbox")
		if event.CreatedAt.IsZero() {
			event.CreatedAt = r.now()
		}
		d.events = append(d.events, event)
		return nil
	})
}

func (r *outboxRepository) FetchPending(_ context.Context, limit int) ([]model.Event, error) {
	var out []model.Event
	err := r.with(func(d *state) error {
		for _, e := range d.events {
			if e.SentAt != nil {
				continue
			}
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *outboxRepository) MarkSent(_ context.Context, id int64, at time.Time) error {
	return r.with(func(d *state) error {
		for i := range d.events {
			if d.events[i].ID == id {
				d.events[i].SentAt = &at
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
}
