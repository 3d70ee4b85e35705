package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

const blockchainPaymentColumns = `id, order_id, wallet_payment_id, status, initiated_at, confirmed_at, expires_at, updated_at`

type paymentRepository struct {
	db querier
}

func scanBlockchainPayment(row pgx.Row, p *model.BlockchainPayment) error {
	return row.Scan(&p.ID, &p.OrderID, &p.WalletPaymentID, &p.Status, &p.InitiatedAt, &p.ConfirmedAt, &p.ExpiresAt, &p.UpdatedAt)
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.BlockchainPayment) error {
	const query = `INSERT INTO blockchain_payments (id, order_id, wallet_payment_id, status, initiated_at, confirmed_at, expires_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING updated_at`
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, query, payment.ID, payment.OrderID, payment.WalletPaymentID, payment.Status,
		payment.InitiatedAt, payment.ConfirmedAt, payment.ExpiresAt).Scan(&payment.UpdatedAt)
	return translate(err)
}

func (r *paymentRepository) get(ctx context.Context, where string, arg any) (*model.BlockchainPayment, error) {
	var p model.BlockchainPayment
	if err := scanBlockchainPayment(r.db.QueryRow(ctx, `SELECT `+blockchainPaymentColumns+` FROM blockchain_payments WHERE `+where, arg), &p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *paymentRepository) GetByOrder(ctx context.Context, orderID int64) (*model.BlockchainPayment, error) {
	return r.get(ctx, `order_id=$1`, orderID)
}

func (r *paymentRepository) GetByWalletPayment(ctx context.Context, walletPaymentID uuid.UUID) (*model.BlockchainPayment, error) {
	return r.get(ctx, `wallet_payment_id=$1`, walletPaymentID)
}

func (r *paymentRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.BlockchainPaymentStatus, confirmedAt *time.Time, from ...model.BlockchainPaymentStatus) (bool, error) {
	query := `UPDATE blockchain_payments SET status=$2, confirmed_at=COALESCE($3, confirmed_at), updated_at=NOW() WHERE id=$1`
	args := []any{id, status, confirmedAt}
	if len(from) > 0 {
		query += ` AND status = ANY($4)`
		args = append(args, statusList(from))
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	return false, exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM blockchain_payments WHERE id=$1)`, id)
}

type outboxRepository struct {
	db querier
}

func (r *outboxRepository) Enqueue(ctx context.Context, event model.Event) error {
	const query = `INSERT INTO outbox_events (event_id, event_type, aggregate_id, payload, created_at) VALUES ($1, $2, $3, $4, $5)`
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, query, event.EventID, event.Type, event.AggregateID, []byte(event.Payload), event.CreatedAt)
	return translate(err)
}

// FetchPending locks the oldest unsent events so concurrent relays skip them.
func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]model.Event, error) {
	const query = `SELECT id, event_id, event_type, aggregate_id, payload, created_at, sent_at
                   FROM outbox_events
                   WHERE sent_at IS NULL
                   ORDER BY id
                   LIMIT $1
                   FOR UPDATE SKIP LOCKED`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Row, e *model.Event) error {
		var payload []byte
		if err := row.Scan(&e.ID, &e.EventID, &e.Type, &e.AggregateID, &payload, &e.CreatedAt, &e.SentAt); err != nil {
			return err
		}
		e.Payload = payload
		return nil
	})
}

func (r *outboxRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE outbox_events SET sent_at=$2 WHERE id=$1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
