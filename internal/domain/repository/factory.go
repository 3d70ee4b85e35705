package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Products() ProductRepository
	Addresses() AddressRepository
	Carts() CartRepository
	Orders() OrderRepository
	Wallets() WalletRepository
	Payments() PaymentRepository
	Outbox() OutboxRepository
}

// Store is a Factory that can also run a unit of work against transaction-bound repositories.
// The repositories passed to fn must not be used after fn returns.
type Store interface {
	Factory
	WithinTransaction(ctx context.Context, fn func(Factory) error) error
	Ping(ctx context.Context) error
}
