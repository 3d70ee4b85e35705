package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            is_staff BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            discount_price NUMERIC(12,2),
            inventory INTEGER NOT NULL CHECK (inventory >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS addresses (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            full_name TEXT NOT NULL,
            street TEXT NOT NULL,
            city TEXT NOT NULL,
            postal_code TEXT NOT NULL,
            country TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS carts (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS cart_items (
            id BIGSERIAL PRIMARY KEY,
            cart_id BIGINT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(id),
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            UNIQUE (cart_id, product_id)
        )`,
	`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            shipping_address_id BIGINT NOT NULL REFERENCES addresses(id),
            billing_address_id BIGINT NOT NULL REFERENCES addresses(id),
            subtotal NUMERIC(12,2) NOT NULL,
            shipping_cost NUMERIC(12,2) NOT NULL,
            total_amount NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL,
            payment_status BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id BIGINT NOT NULL REFERENCES products(id),
            product_name TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            price NUMERIC(12,2) NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS cryptocurrencies (
            id BIGSERIAL PRIMARY KEY,
            symbol TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            decimals INTEGER NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE
        )`,
	`CREATE TABLE IF NOT EXISTS wallets (
            id UUID PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL REFERENCES users(id),
            address TEXT NOT NULL,
            wallet_type TEXT NOT NULL,
            is_verified BOOLEAN NOT NULL DEFAULT FALSE,
            verified_at TIMESTAMPTZ,
            balance NUMERIC(36,18) NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
            id UUID PRIMARY KEY,
            wallet_id UUID NOT NULL REFERENCES wallets(id),
            tx_type TEXT NOT NULL,
            currency_id BIGINT NOT NULL REFERENCES cryptocurrencies(id),
            amount NUMERIC(36,18) NOT NULL,
            from_address TEXT NOT NULL,
            to_address TEXT NOT NULL,
            hash TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL,
            gas_fee NUMERIC(36,18),
            block_number BIGINT,
            confirmation_count BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS wallet_payments (
            id UUID PRIMARY KEY,
            wallet_id UUID NOT NULL REFERENCES wallets(id),
            order_ref TEXT NOT NULL,
            currency_id BIGINT NOT NULL REFERENCES cryptocurrencies(id),
            amount NUMERIC(36,18) NOT NULL,
            usd_amount NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL,
            hash TEXT NOT NULL DEFAULT '',
            transaction_id UUID REFERENCES wallet_transactions(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS blockchain_payments (
            id UUID PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id),
            wallet_payment_id UUID NOT NULL REFERENCES wallet_payments(id),
            status TEXT NOT NULL,
            initiated_at TIMESTAMPTZ NOT NULL,
            confirmed_at TIMESTAMPTZ,
            expires_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
            id BIGSERIAL PRIMARY KEY,
            event_id UUID UNIQUE NOT NULL,
            event_type TEXT NOT NULL,
            aggregate_id TEXT NOT NULL,
            payload JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            sent_at TIMESTAMPTZ
        )`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_wallets_address ON wallets(LOWER(address)) WHERE address <> 'unknown'`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wallet_transactions_pending ON wallet_transactions(created_at) WHERE status = 'pending'`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_unsent ON outbox_events(id) WHERE sent_at IS NULL`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
