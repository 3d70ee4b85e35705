package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/gencart/internal/domain/repository"
)

const uniqueViolation = "23505"

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// factory hands out repositories bound to a pool or to an open transaction.
type factory struct {
	db querier
}

func (f factory) Users() repository.UserRepository { return &userRepository{db: f.db} }
func (f factory) Products() repository.ProductRepository { return &productRepository{db: f.db} }
func (f factory) Addresses() repository.AddressRepository { return &addressRepository{db: f.db} }
func (f factory) Carts() repository.CartRepository { return &cartRepository{db: f.db} }
func (f factory) Orders() repository.OrderRepository { return &orderRepository{db: f.db} }
func (f factory) Wallets() repository.WalletRepository { return &walletRepository{db: f.db} }
func (f factory) Payments() repository.PaymentRepository { return &paymentRepository{db: f.db} }
func (f factory) Outbox() repository.OutboxRepository { return &outboxRepository{db: f.db} }

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository { return factory{db: s.pool}.Users() }
func (s *Storage) Products() repository.ProductRepository { return factory{db: s.pool}.Products() }
func (s *Storage) Addresses() repository.AddressRepository { return factory{db: s.pool}.Addresses() }
func (s *Storage) Carts() repository.CartRepository { return factory{db: s.pool}.Carts() }
func (s *Storage) Orders() repository.OrderRepository { return factory{db: s.pool}.Orders() }
func (s *Storage) Wallets() repository.WalletRepository { return factory{db: s.pool}.Wallets() }
func (s *Storage) Payments() repository.PaymentRepository { return factory{db: s.pool}.Payments() }
func (s *Storage) Outbox() repository.OutboxRepository { return factory{db: s.pool}.Outbox() }

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Warn("rollback failed", slog.Any("error", rbErr))
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(factory{db: tx})
	return err
}
