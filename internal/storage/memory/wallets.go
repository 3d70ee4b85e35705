package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

type walletRepository struct{ session }

func (r *walletRepository) Create(_ context.Context, wallet model.Wallet) (*model.Wallet, error) {
	err := r.with(func(d *state) error {
		for _, w := range d.wallets {
			if w.UserID == wallet.UserID {
				return domainErrors.ErrAlreadyExists
			}
			if wallet.Address != model.UnknownWalletAddress && strings.EqualFold(w.Address, wallet.Address) {
				return domainErrors.ErrAlreadyExists
			}
		}
		if wallet.ID == uuid.Nil {
			wallet.ID = uuid.New()
		}
		wallet.CreatedAt = r.now()
		wallet.UpdatedAt = wallet.CreatedAt
		d.wallets[wallet.ID] = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUser(_ context.Context, userID int64) (*model.Wallet, error) {
	var out *model.Wallet
	err := r.with(func(d *state) error {
		for _, w := range d.wallets {
			if w.UserID == userID {
				out = &w
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return out, err
}

func (r *walletRepository) updateWallet(id uuid.UUID, fn func(*model.Wallet)) error {
	return r.with(func(d *state) error {
		w, ok := d.wallets[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		fn(&w)
		w.UpdatedAt = r.now()
		d.wallets[id] = w
		return nil
	})
}

func (r *walletRepository) MarkVerified(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.updateWallet(id, func(w *model.Wallet) {
		w.IsVerified = true
		w.VerifiedAt = &at
	})
}

func (r *walletRepository) SetBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return r.updateWallet(id, func(w *model.Wallet) { w.Balance = balance })
}

func (r *walletRepository) EnsureCurrency(_ context.Context, currency model.Cryptocurrency) (*model.Cryptocurrency, error) {
	var out model.Cryptocurrency
	err := r.with(func(d *state) error {
		for _, c := range d.currencies {
			if c.Symbol == currency.Symbol {
				out = c
				return nil
			}
		}
		currency.ID = d.next("currencies")
		d.currencies[currency.ID] = currency
		out = currency
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *walletRepository) CreateTransaction(_ context.Context, tx *model.WalletTransaction) error {
	return r.with(func(d *state) error {
		for _, existing := range d.transactions {
			if tx.Hash != "" && existing.Hash == tx.Hash {
				return domainErrors.ErrAlreadyExists
			}
		}
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		tx.CreatedAt = r.now()
		tx.UpdatedAt = tx.CreatedAt
		d.transactions[tx.ID] = *tx
		return nil
	})
}

func (r *walletRepository) GetTransaction(_ context.Context, id uuid.UUID) (*model.WalletTransaction, error) {
	var out *model.WalletTransaction
	err := r.with(func(d *state) error {
		tx, ok := d.transactions[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		out = &tx
		return nil
	})
	return out, err
}

func (r *walletRepository) GetTransactionByHash(_ context.Context, hash string) (*model.WalletTransaction, error) {
	var out *model.WalletTransaction
	err := r.with(func(d *state) error {
		for _, tx := range d.transactions {
			if tx.Hash == hash {
				out = &tx
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return out, err
}

func (r *walletRepository) ListTransactions(_ context.Context, walletID uuid.UUID, filter repository.TransactionFilter) ([]model.WalletTransaction, error) {
	var out []model.WalletTransaction
	err := r.with(func(d *state) error {
		for _, tx := range d.transactions {
			if tx.WalletID != walletID {
				continue
			}
			if filter.Status != "" && tx.Status != filter.Status {
				continue
			}
			if filter.Type != "" && tx.Type != filter.Type {
				continue
			}
			out = append(out, tx)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *walletRepository) ListPendingTransactions(_ context.Context, limit int) ([]model.WalletTransaction, error) {
	var out []model.WalletTransaction
	err := r.with(func(d *state) error {
		for _, tx := range d.transactions {
			if tx.Status == model.TransactionStatusPending {
				out = append(out, tx)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *walletRepository) RecordProgress(_ context.Context, id uuid.UUID, blockNumber, confirmations int64, gasFee decimal.Decimal) error {
	return r.with(func(d *state) error {
		tx, ok := d.transactions[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		tx.BlockNumber = &blockNumber
		tx.ConfirmationCount = confirmations
		tx.GasFee = &gasFee
		tx.UpdatedAt = r.now()
		d.transactions[id] = tx
		return nil
	})
}

func (r *walletRepository) SetTransactionStatus(_ context.Context, id uuid.UUID, status model.TransactionStatus, from ...model.TransactionStatus) (bool, error) {
	var changed bool
	err := r.with(func(d *state) error {
		tx, ok := d.transactions[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		if len(from) > 0 && !slices.Contains(from, tx.Status) {
			return nil
		}
		tx.Status = status
		tx.UpdatedAt = r.now()
		d.transactions[id] = tx
		changed = true
		return nil
	})
	return changed, err
}

func (r *walletRepository) CreatePayment(_ context.Context, payment *model.WalletPayment) error {
	return r.with(func(d *state) error {
		if _, ok := d.wallets[payment.WalletID]; !ok {
			return domainErrors.ErrNotFound
		}
		if payment.ID == uuid.Nil {
			payment.ID = uuid.New()
		}
		payment.CreatedAt = r.now()
		payment.UpdatedAt = payment.CreatedAt
		d.payments[payment.ID] = *payment
		return nil
	})
}

func (r *walletRepository) GetPayment(_ context.Context, id uuid.UUID) (*model.WalletPayment, error) {
	var out *model.WalletPayment
	err := r.with(func(d *state) error {
		p, ok := d.payments[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *walletRepository) GetPaymentByTransaction(_ context.Context, txID uuid.UUID) (*model.WalletPayment, error) {
	var out *model.WalletPayment
	err := r.with(func(d *state) error {
		for _, p := range d.payments {
			if p.TransactionID != nil && *p.TransactionID == txID {
				out = &p
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return out, err
}

func (r *walletRepository) ListPayments(_ context.Context, walletID uuid.UUID, status model.WalletPaymentStatus) ([]model.WalletPayment, error) {
	var out []model.WalletPayment
	err := r.with(func(d *state) error {
		for _, p := range d.payments {
			if p.WalletID == walletID && (status == "" || p.Status == status) {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *walletRepository) SetPaymentStatus(_ context.Context, id uuid.UUID, status model.WalletPaymentStatus, from ...model.WalletPaymentStatus) (bool, error) {
	var changed bool
	err := r.with(func(d *state) error {
		p, ok := d.payments[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		if len(from) > 0 && !slices.Contains(from, p.Status) {
			return nil
		}
		p.Status = status
		p.UpdatedAt = r.now()
		d.payments[id] = p
		changed = true
		return nil
	})
	return changed, err
}
