package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

// Store keeps every table in process memory. A transaction holds the store
// lock for its whole duration and restores a snapshot when it fails.
type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

type cartRow struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

type cartItemRow struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int
}

type state struct {
	seq          map[string]int64
	users        map[int64]model.User
	products     map[int64]model.Product
	addresses    map[int64]model.Address
	carts        map[int64]cartRow
	cartItems    map[int64]cartItemRow
	orders       map[int64]model.Order
	wallets      map[uuid.UUID]model.Wallet
	currencies   map[int64]model.Cryptocurrency
	transactions map[uuid.UUID]model.WalletTransaction
	payments     map[uuid.UUID]model.WalletPayment
	blockchain   map[uuid.UUID]model.BlockchainPayment
	events       []model.Event
}

func newState() *state {
	return &state{
		seq:          make(map[string]int64),
		users:        make(map[int64]model.User),
		products:     make(map[int64]model.Product),
		addresses:    make(map[int64]model.Address),
		carts:        make(map[int64]cartRow),
		cartItems:    make(map[int64]cartItemRow),
		orders:       make(map[int64]model.Order),
		wallets:      make(map[uuid.UUID]model.Wallet),
		currencies:   make(map[int64]model.Cryptocurrency),
		transactions: make(map[uuid.UUID]model.WalletTransaction),
		payments:     make(map[uuid.UUID]model.WalletPayment),
		blockchain:   make(map[uuid.UUID]model.BlockchainPayment),
	}
}

func (d *state) next(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

// clone copies every table. Stored values are never mutated in place, so
// copying the maps is enough to restore them later.
func (d *state) clone() *state {
	return &state{
		seq:          maps.Clone(d.seq),
		users:        maps.Clone(d.users),
		products:     maps.Clone(d.products),
		addresses:    maps.Clone(d.addresses),
		carts:        maps.Clone(d.carts),
		cartItems:    maps.Clone(d.cartItems),
		orders:       maps.Clone(d.orders),
		wallets:      maps.Clone(d.wallets),
		currencies:   maps.Clone(d.currencies),
		transactions: maps.Clone(d.transactions),
		payments:     maps.Clone(d.payments),
		blockchain:   maps.Clone(d.blockchain),
		events:       slices.Clone(d.events),
	}
}

// New creates an empty store.
func New() *Store {
	return &Store{data: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// session binds repositories to the store, either taking the lock per call
// or running under a lock already held by WithinTransaction.
type session struct {
	store  *Store
	locked bool
}

func (s session) with(fn func(d *state) error) error {
	if !s.locked {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
	}
	return fn(s.store.data)
}

func (s session) now() time.Time { return s.store.now() }

func (s *Store) session() session { return session{store: s} }

func (s *Store) Users() repository.UserRepository { return s.session().Users() }
func (s *Store) Products() repository.ProductRepository { return s.session().Products() }
func (s *Store) Addresses() repository.AddressRepository { return s.session().Addresses() }
func (s *Store) Carts() repository.CartRepository { return s.session().Carts() }
func (s *Store) Orders() repository.OrderRepository { return s.session().Orders() }
func (s *Store) Wallets() repository.WalletRepository { return s.session().Wallets() }
func (s *Store) Payments() repository.PaymentRepository { return s.session().Payments() }
func (s *Store) Outbox() repository.OutboxRepository { return s.session().Outbox() }

func (s session) Users() repository.UserRepository { return &userRepository{s} }
func (s session) Products() repository.ProductRepository { return &productRepository{s} }
func (s session) Addresses() repository.AddressRepository { return &addressRepository{s} }
func (s session) Carts() repository.CartRepository { return &cartRepository{s} }
func (s session) Orders() repository.OrderRepository { return &orderRepository{s} }
func (s session) Wallets() repository.WalletRepository { return &walletRepository{s} }
func (s session) Payments() repository.PaymentRepository { return &paymentRepository{s} }
func (s session) Outbox() repository.OutboxRepository { return &outboxRepository{s} }

// WithinTransaction runs fn while holding the store lock; any error restores
// the state captured before fn started.
func (s *Store) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.data.clone()
	if err := fn(session{store: s, locked: true}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op kept for symmetry with the postgres storage.
func (s *Store) Close() {}
