package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
	"github.com/polkiloo/gencart/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
	Principal(ctx context.Context, userID int64) (model.Principal, error)
}

// CatalogFacade covers products and addresses.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, principal model.Principal, product model.Product) (*model.Product, error)
	AddAddress(ctx context.Context, userID int64, address model.Address) (*model.Address, error)
	Addresses(ctx context.Context, userID int64) ([]model.Address, error)
}

type CartFacade interface {
	Cart(ctx context.Context, userID int64) (*model.Cart, error)
	AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, userID, itemID int64, quantity int) (*model.Cart, error)
	RemoveCartItem(ctx context.Context, userID, itemID int64) (*model.Cart, error)
	ClearCart(ctx context.Context, userID int64) (*model.Cart, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, userID int64, idempotencyKey string, req usecase.CheckoutRequest) (*model.Order, bool, error)
	Order(ctx context.Context, principal model.Principal, id int64) (*model.Order, error)
	Orders(ctx context.Context, principal model.Principal) ([]model.Order, error)
	OrdersByUser(ctx context.Context, principal model.Principal, userID int64) ([]model.Order, error)
	CancelOrder(ctx context.Context, principal model.Principal, id int64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, principal model.Principal, id int64, status string) (*model.Order, error)
	OrderPayment(ctx context.Context, principal model.Principal, orderID int64) (*model.BlockchainPayment, error)
	ApplyPaymentVerdict(ctx context.Context, secret string, verdict usecase.Verdict) (*model.WalletTransaction, error)
}

type WalletFacade interface {
	ConnectWallet(ctx context.Context, userID int64, address, walletType string) (*model.Wallet, error)
	VerifyWallet(ctx context.Context, userID int64, req usecase.WalletVerification) (*model.Wallet, error)
	WalletSummary(ctx context.Context, userID int64) (*model.WalletSummary, error)
	WalletTransactions(ctx context.Context, userID int64, filter repository.TransactionFilter) ([]model.WalletTransaction, error)
	WalletPayments(ctx context.Context, userID int64, status model.WalletPaymentStatus) ([]model.WalletPayment, error)
	InitiateWalletPayment(ctx context.Context, userID int64, req usecase.WalletPaymentRequest) (*model.WalletPayment, error)
	SetWalletBalance(ctx context.Context, principal model.Principal, userID int64, balance decimal.Decimal, blockNumber int64) (*model.Wallet, error)
}

type HealthFacade interface {
	Ping(ctx context.Context) error
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	AuthFacade
	CatalogFacade
	CartFacade
	OrderFacade
	WalletFacade
	HealthFacade
}
