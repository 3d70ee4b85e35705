package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

const (
	walletColumns      = `id, user_id, address, wallet_type, is_verified, verified_at, balance, created_at, updated_at`
	transactionColumns = `id, wallet_id, tx_type, currency_id, amount, from_address, to_address, hash, status,
                   gas_fee, block_number, confirmation_count, created_at, updated_at`
	paymentColumns = `id, wallet_id, order_ref, currency_id, amount, usd_amount, status, hash, transaction_id, created_at, updated_at`
)

type walletRepository struct {
	db querier
}

func scanWallet(row pgx.Row, w *model.Wallet) error {
	return row.Scan(&w.ID, &w.UserID, &w.Address, &w.Type, &w.IsVerified, &w.VerifiedAt, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
}

func scanTransaction(row pgx.Row, tx *model.WalletTransaction) error {
	var gasFee decimal.NullDecimal
	err := row.Scan(&tx.ID, &tx.WalletID, &tx.Type, &tx.CurrencyID, &tx.Amount, &tx.FromAddress, &tx.ToAddress, &tx.Hash,
		&tx.Status, &gasFee, &tx.BlockNumber, &tx.ConfirmationCount, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return err
	}
	tx.GasFee = decimalPtr(gasFee)
	return nil
}

func scanPayment(row pgx.Row, p *model.WalletPayment) error {
	return row.Scan(&p.ID, &p.WalletID, &p.OrderRef, &p.CurrencyID, &p.Amount, &p.USDAmount, &p.Status, &p.Hash,
		&p.TransactionID, &p.CreatedAt, &p.UpdatedAt)
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row, *T) error) ([]T, error) {
	defer rows.Close()
	var result []T
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func statusList[S ~string](from []S) []string {
	out := make([]string, len(from))
	for i, s := range from {
		out[i] = string(s)
	}
	return out
}

func (r *walletRepository) Create(ctx context.Context, wallet model.Wallet) (*model.Wallet, error) {
	const query = `INSERT INTO wallets (id, user_id, address, wallet_type, is_verified, verified_at, balance)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, query, wallet.ID, wallet.UserID, wallet.Address, wallet.Type, wallet.IsVerified, wallet.VerifiedAt, wallet.Balance).
		Scan(&wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUser(ctx context.Context, userID int64) (*model.Wallet, error) {
	var w model.Wallet
	if err := scanWallet(r.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE user_id=$1`, userID), &w); err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *walletRepository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *walletRepository) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.execOne(ctx, `UPDATE wallets SET is_verified=TRUE, verified_at=$2, updated_at=NOW() WHERE id=$1`, id, at)
}

func (r *walletRepository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return r.execOne(ctx, `UPDATE wallets SET balance=$2, updated_at=NOW() WHERE id=$1`, id, balance)
}

func (r *walletRepository) EnsureCurrency(ctx context.Context, currency model.Cryptocurrency) (*model.Cryptocurrency, error) {
	const query = `INSERT INTO cryptocurrencies (symbol, name, decimals, is_active) VALUES ($1, $2, $3, $4)
                   ON CONFLICT (symbol) DO UPDATE SET symbol = EXCLUDED.symbol
                   RETURNING id, symbol, name, decimals, is_active`
	var c model.Cryptocurrency
	err := r.db.QueryRow(ctx, query, currency.Symbol, currency.Name, currency.Decimals, currency.IsActive).
		Scan(&c.ID, &c.Symbol, &c.Name, &c.Decimals, &c.IsActive)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *model.WalletTransaction) error {
	const query = `INSERT INTO wallet_transactions (id, wallet_id, tx_type, currency_id, amount, from_address, to_address,
                   hash, status, gas_fee, block_number, confirmation_count)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING created_at, updated_at`
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, query, tx.ID, tx.WalletID, tx.Type, tx.CurrencyID, tx.Amount, tx.FromAddress, tx.ToAddress,
		tx.Hash, tx.Status, nullDecimal(tx.GasFee), tx.BlockNumber, tx.ConfirmationCount).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	return translate(err)
}

func (r *walletRepository) getTransaction(ctx context.Context, where string, arg any) (*model.WalletTransaction, error) {
	var tx model.WalletTransaction
	if err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE `+where, arg), &tx); err != nil {
		return nil, translate(err)
	}
	return &tx, nil
}

func (r *walletRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*model.WalletTransaction, error) {
	return r.getTransaction(ctx, `id=$1`, id)
}

func (r *walletRepository) GetTransactionByHash(ctx context.Context, hash string) (*model.WalletTransaction, error) {
	return r.getTransaction(ctx, `hash=$1`, hash)
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, filter repository.TransactionFilter) ([]model.WalletTransaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM wallet_transactions
                   WHERE wallet_id=$1 AND ($2 = '' OR status=$2) AND ($3 = '' OR tx_type=$3)
                   ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, walletID, string(filter.Status), string(filter.Type))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTransaction)
}

func (r *walletRepository) ListPendingTransactions(ctx context.Context, limit int) ([]model.WalletTransaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM wallet_transactions
                   WHERE status=$1 ORDER BY created_at LIMIT $2`
	rows, err := r.db.Query(ctx, query, model.TransactionStatusPending, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTransaction)
}

func (r *walletRepository) RecordProgress(ctx context.Context, id uuid.UUID, blockNumber, confirmations int64, gasFee decimal.Decimal) error {
	const query = `UPDATE wallet_transactions SET block_number=$2, confirmation_count=$3, gas_fee=$4, updated_at=NOW() WHERE id=$1`
	return r.execOne(ctx, query, id, blockNumber, confirmations, gasFee)
}

func (r *walletRepository) SetTransactionStatus(ctx context.Context, id uuid.UUID, status model.TransactionStatus, from ...model.TransactionStatus) (bool, error) {
	return conditionalUpdate(ctx, r.db, "wallet_transactions", id, string(status), statusList(from))
}

func (r *walletRepository) CreatePayment(ctx context.Context, payment *model.WalletPayment) error {
	const query = `INSERT INTO wallet_payments (id, wallet_id, order_ref, currency_id, amount, usd_amount, status, hash, transaction_id)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, query, payment.ID, payment.WalletID, payment.OrderRef, payment.CurrencyID, payment.Amount,
		payment.USDAmount, payment.Status, payment.Hash, payment.TransactionID).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	return translate(err)
}

func (r *walletRepository) getPayment(ctx context.Context, where string, arg any) (*model.WalletPayment, error) {
	var p model.WalletPayment
	if err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM wallet_payments WHERE `+where, arg), &p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *walletRepository) GetPayment(ctx context.Context, id uuid.UUID) (*model.WalletPayment, error) {
	return r.getPayment(ctx, `id=$1`, id)
}

func (r *walletRepository) GetPaymentByTransaction(ctx context.Context, txID uuid.UUID) (*model.WalletPayment, error) {
	return r.getPayment(ctx, `transaction_id=$1`, txID)
}

func (r *walletRepository) ListPayments(ctx context.Context, walletID uuid.UUID, status model.WalletPaymentStatus) ([]model.WalletPayment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM wallet_payments
                   WHERE wallet_id=$1 AND ($2 = '' OR status=$2)
                   ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, walletID, string(status))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPayment)
}

func (r *walletRepository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status model.WalletPaymentStatus, from ...model.WalletPaymentStatus) (bool, error) {
	return conditionalUpdate(ctx, r.db, "wallet_payments", id, string(status), statusList(from))
}

// conditionalUpdate sets status on a uuid keyed table. When from is not empty
// the row must currently hold one of those statuses.
func conditionalUpdate(ctx context.Context, db querier, table string, id uuid.UUID, status string, from []string) (bool, error) {
	query := `UPDATE ` + table + ` SET status=$2, updated_at=NOW() WHERE id=$1`
	args := []any{id, status}
	if len(from) > 0 {
		query += ` AND status = ANY($3)`
		args = append(args, from)
	}

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	return false, exists(ctx, db, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id=$1)`, id)
}
