package app

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/config"
	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
	"github.com/polkiloo/gencart/internal/usecase"
)

// ShopFacade is the single surface the transport layer and the workers call.
type ShopFacade struct {
	auth          *usecase.AuthUseCase
	catalog       *usecase.CatalogUseCase
	carts         *usecase.CartUseCase
	orders        *usecase.OrderUseCase
	payments      *usecase.PaymentUseCase
	wallets       *usecase.WalletUseCase
	store         repository.Store
	idempotency   repository.IdempotencyStore
	webhookSecret string
	logger        *slog.Logger
}

type FacadeParams struct {
	fx.In

	Auth        *usecase.AuthUseCase
	Catalog     *usecase.CatalogUseCase
	Carts       *usecase.CartUseCase
	Orders      *usecase.OrderUseCase
	Payments    *usecase.PaymentUseCase
	Wallets     *usecase.WalletUseCase
	Store       repository.Store
	Idempotency repository.IdempotencyStore
	Config      *config.Config
	Logger      *slog.Logger
}

func NewShopFacade(p FacadeParams) *ShopFacade {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var secret string
	if p.Config != nil {
		secret = p.Config.PaymentWebhookSecret
	}
	return &ShopFacade{
		auth:          p.Auth,
		catalog:       p.Catalog,
		carts:         p.Carts,
		orders:        p.Orders,
		payments:      p.Payments,
		wallets:       p.Wallets,
		store:         p.Store,
		idempotency:   p.Idempotency,
		webhookSecret: secret,
		logger:        logger,
	}
}

func (f *ShopFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *ShopFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *ShopFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *ShopFacade) Principal(ctx context.Context, userID int64) (model.Principal, error) {
	return f.auth.Principal(ctx, userID)
}

func (f *ShopFacade) Ping(ctx context.Context) error {
	return f.store.Ping(ctx)
}

func (f *ShopFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.Products(ctx)
}

func (f *ShopFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Product(ctx, id)
}

func (f *ShopFacade) CreateProduct(ctx context.Context, principal model.Principal, product model.Product) (*model.Product, error) {
	return f.catalog.CreateProduct(ctx, principal, product)
}

func (f *ShopFacade) AddAddress(ctx context.Context, userID int64, address model.Address) (*model.Address, error) {
	return f.catalog.AddAddress(ctx, userID, address)
}

func (f *ShopFacade) Addresses(ctx context.Context, userID int64) ([]model.Address, error) {
	return f.catalog.Addresses(ctx, userID)
}

func (f *ShopFacade) Cart(ctx context.Context, userID int64) (*model.Cart, error) {
	return f.carts.Get(ctx, userID)
}

func (f *ShopFacade) AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*model.Cart, error) {
	return f.carts.AddItem(ctx, userID, productID, quantity)
}

func (f *ShopFacade) UpdateCartItem(ctx context.Context, userID, itemID int64, quantity int) (*model.Cart, error) {
	return f.carts.UpdateItem(ctx, userID, itemID, quantity)
}

func (f *ShopFacade) RemoveCartItem(ctx context.Context, userID, itemID int64) (*model.Cart, error) {
	return f.carts.RemoveItem(ctx, userID, itemID)
}

func (f *ShopFacade) ClearCart(ctx context.Context, userID int64) (*model.Cart, error) {
	return f.carts.Clear(ctx, userID)
}

// Checkout places an order from the caller's cart. With a non-empty key the
// first request for checkout:<user>:<key> runs; a replay after success
// returns the stored order and reports replayed=true.
func (f *ShopFacade) Checkout(ctx context.Context, userID int64, key string, req usecase.CheckoutRequest) (order *model.Order, replayed bool, err error) {
	if key == "" {
		order, err = f.orders.Checkout(ctx, userID, req)
		return order, false, err
	}

	idemKey := fmt.Sprintf("checkout:%d:%s", userID, key)
	reservation, err := f.idempotency.Reserve(ctx, idemKey)
	if err != nil {
		return nil, false, err
	}
	switch reservation.State {
	case repository.ReservationInFlight:
		return nil, false, domainErrors.ErrIdempotencyConflict
	case repository.ReservationCompleted:
		order, err = f.orders.Get(ctx, model.Principal{UserID: userID}, reservation.OrderID)
		return order, true, err
	}

	order, err = f.orders.Checkout(ctx, userID, req)
	if err != nil {
		if relErr := f.idempotency.Release(ctx, idemKey); relErr != nil {
			f.logger.Error("release idempotency key failed", slog.String("key", idemKey), slog.String("error", relErr.Error()))
		}
		return nil, false, err
	}
	if err := f.idempotency.Complete(ctx, idemKey, order.ID); err != nil {
		f.logger.Error("complete idempotency key failed",
			slog.String("key", idemKey),
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
	return order, false, nil
}

func (f *ShopFacade) Order(ctx context.Context, principal model.Principal, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, principal, id)
}

func (f *ShopFacade) Orders(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	return f.orders.List(ctx, principal)
}

func (f *ShopFacade) OrdersByUser(ctx context.Context, principal model.Principal, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, principal, userID)
}

func (f *ShopFacade) CancelOrder(ctx context.Context, principal model.Principal, id int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, principal, id)
}

func (f *ShopFacade) UpdateOrderStatus(ctx context.Context, principal model.Principal, id int64, status string) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, principal, id, status)
}

func (f *ShopFacade) OrderPayment(ctx context.Context, principal model.Principal, orderID int64) (*model.BlockchainPayment, error) {
	return f.payments.OrderPayment(ctx, principal, orderID)
}

// ApplyPaymentVerdict accepts a verdict from an external verifier that
// presented the configured shared secret. The webhook is disabled when no
// secret is configured.
func (f *ShopFacade) ApplyPaymentVerdict(ctx context.Context, secret string, verdict usecase.Verdict) (*model.WalletTransaction, error) {
	if f.webhookSecret == "" {
		return nil, domainErrors.ErrNotFound
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(f.webhookSecret)) != 1 {
		return nil, domainErrors.ErrInvalidCredentials
	}
	return f.payments.ApplyVerdict(ctx, verdict)
}

func (f *ShopFacade) PendingTransactions(ctx context.Context, limit int) ([]model.WalletTransaction, error) {
	return f.payments.PendingTransactions(ctx, limit)
}

func (f *ShopFacade) CheckTransaction(ctx context.Context, txn model.WalletTransaction) (string, error) {
	return f.payments.CheckTransaction(ctx, txn)
}

func (f *ShopFacade) ConnectWallet(ctx context.Context, userID int64, address, walletType string) (*model.Wallet, error) {
	return f.wallets.Connect(ctx, userID, address, walletType)
}

func (f *ShopFacade) VerifyWallet(ctx context.Context, userID int64, req usecase.WalletVerification) (*model.Wallet, error) {
	return f.wallets.Verify(ctx, userID, req)
}

func (f *ShopFacade) WalletSummary(ctx context.Context, userID int64) (*model.WalletSummary, error) {
	return f.wallets.Summary(ctx, userID)
}

func (f *ShopFacade) WalletTransactions(ctx context.Context, userID int64, filter repository.TransactionFilter) ([]model.WalletTransaction, error) {
	return f.wallets.Transactions(ctx, userID, filter)
}

func (f *ShopFacade) WalletPayments(ctx context.Context, userID int64, status model.WalletPaymentStatus) ([]model.WalletPayment, error) {
	return f.wallets.Payments(ctx, userID, status)
}

func (f *ShopFacade) InitiateWalletPayment(ctx context.Context, userID int64, req usecase.WalletPaymentRequest) (*model.WalletPayment, error) {
	return f.wallets.InitiatePayment(ctx, userID, req)
}

func (f *ShopFacade) SetWalletBalance(ctx context.Context, principal model.Principal, userID int64, balance decimal.Decimal, blockNumber int64) (*model.Wallet, error) {
	return f.wallets.SetBalance(ctx, principal, userID, balance, blockNumber)
}
