package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

var supportedCurrencies = map[string]model.Cryptocurrency{
	"ETH":  ether,
	"USDT": {Symbol: "USDT", Name: "Tether USD", Decimals: 6, IsActive: true},
	"USDC": {Symbol: "USDC", Name: "USD Coin", Decimals: 6, IsActive: true},
}

// WalletPaymentRequest initiates a payment from the caller's wallet.
type WalletPaymentRequest struct {
	OrderRef  string
	Currency  string
	Amount    decimal.Decimal
	USDAmount decimal.Decimal
}

// WalletVerification proves ownership of a connected wallet.
type WalletVerification struct {
	Address   string
	Message   string
	Signature string
}

// WalletUseCase manages the caller's wallet and its payment history.
type WalletUseCase struct {
	store    repository.Store
	verifier SignatureVerifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewWalletUseCase(store repository.Store, verifier SignatureVerifier, logger *slog.Logger) *WalletUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletUseCase{
		store:    store,
		verifier: verifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Connect registers the caller's single wallet. The wallet starts unverified.
func (u *WalletUseCase) Connect(ctx context.Context, userID int64, address, walletType string) (*model.Wallet, error) {
	address = strings.TrimSpace(address)
	if !ValidateWalletAddress(address) {
		return nil, domainErrors.Invalid("wallet_address", "must be a 0x prefixed 40 hex digit address")
	}
	wt, ok := model.ParseWalletType(walletType)
	if !ok {
		return nil, domainErrors.Invalid("wallet_type", "unsupported wallet type")
	}
	return u.store.Wallets().Create(ctx, model.Wallet{UserID: userID, Address: address, Type: wt})
}

func (u *WalletUseCase) wallet(ctx context.Context, userID int64) (*model.Wallet, error) {
	wallet, err := u.store.Wallets().GetByUser(ctx, userID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.NotFound("wallet", nil)
	}
	return wallet, err
}

// Verify marks the wallet verified once the signature over message checks out.
func (u *WalletUseCase) Verify(ctx context.Context, userID int64, req WalletVerification) (*model.Wallet, error) {
	if err := required("signature", req.Signature); err != nil {
		return nil, err
	}
	wallet, err := u.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.Address), wallet.Address) {
		return nil, domainErrors.ErrWalletAddressMismatch
	}
	if err := u.verifier.Verify(ctx, wallet.Address, req.Message, req.Signature); err != nil {
		u.logger.Warn("wallet signature rejected", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, domainErrors.ErrInvalidSignature
	}
	if err := u.store.Wallets().MarkVerified(ctx, wallet.ID, u.now()); err != nil {
		return nil, err
	}
	return u.store.Wallets().GetByUser(ctx, userID)
}

// Summary aggregates the caller's wallet activity.
func (u *WalletUseCase) Summary(ctx context.Context, userID int64) (*model.WalletSummary, error) {
	wallet, err := u.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := u.store.Wallets().ListTransactions(ctx, wallet.ID, repository.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	payments, err := u.store.Wallets().ListPayments(ctx, wallet.ID, "")
	if err != nil {
		return nil, err
	}
	summary := &model.WalletSummary{Wallet: *wallet, TotalTransactions: len(txs), TotalPayments: len(payments)}
	for _, p := range payments {
		if p.Status == model.WalletPaymentPending {
			summary.PendingPayments++
		}
	}
	return summary, nil
}

func (u *WalletUseCase) Transactions(ctx context.Context, userID int64, filter repository.TransactionFilter) ([]model.WalletTransaction, error) {
	wallet, err := u.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.store.Wallets().ListTransactions(ctx, wallet.ID, filter)
}

func (u *WalletUseCase) Payments(ctx context.Context, userID int64, status model.WalletPaymentStatus) ([]model.WalletPayment, error) {
	wallet, err := u.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.store.Wallets().ListPayments(ctx, wallet.ID, status)
}

// InitiatePayment records a pending payment from a verified wallet against an
// order reference. The balance is checked but not reserved.
func (u *WalletUseCase) InitiatePayment(ctx context.Context, userID int64, req WalletPaymentRequest) (*model.WalletPayment, error) {
	if err := required("order_id", req.OrderRef); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, domainErrors.Invalid("amount", "must be greater than 0")
	}
	if req.USDAmount.IsNegative() {
		return nil, domainErrors.Invalid("usd_amount", "must not be negative")
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Currency))
	if symbol == "" {
		symbol = ether.Symbol
	}
	currency, ok := supportedCurrencies[symbol]
	if !ok {
		return nil, domainErrors.Invalid("cryptocurrency", "unsupported currency")
	}

	var payment *model.WalletPayment
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		wallet, err := f.Wallets().GetByUser(ctx, userID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.NotFound("wallet", nil)
		}
		if err != nil {
			return err
		}
		if !wallet.IsVerified {
			return domainErrors.ErrWalletNotVerified
		}
		if wallet.Balance.LessThan(req.Amount) {
			return &domainErrors.WalletBalanceError{Required: req.Amount, Available: wallet.Balance}
		}
		stored, err := f.Wallets().EnsureCurrency(ctx, currency)
		if err != nil {
			return err
		}
		payment = &model.WalletPayment{
			WalletID:   wallet.ID,
			OrderRef:   strings.TrimSpace(req.OrderRef),
			CurrencyID: stored.ID,
			Amount:     req.Amount,
			USDAmount:  req.USDAmount,
			Status:     model.WalletPaymentPending,
		}
		return f.Wallets().CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// SetBalance overwrites a user's wallet balance as observed at blockNumber. Staff only.
func (u *WalletUseCase) SetBalance(ctx context.Context, principal model.Principal, userID int64, balance decimal.Decimal, blockNumber int64) (*model.Wallet, error) {
	if !principal.IsStaff {
		return nil, domainErrors.ErrForbidden
	}
	if balance.IsNegative() {
		return nil, domainErrors.Invalid("balance", "must not be negative")
	}
	if blockNumber <= 0 {
		return nil, domainErrors.Invalid("block_number", "is required")
	}
	wallet, err := u.wallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.store.Wallets().SetBalance(ctx, wallet.ID, balance); err != nil {
		return nil, err
	}
	u.logger.Info("wallet balance updated",
		slog.Int64("user_id", userID),
		slog.String("balance", balance.String()),
		slog.Int64("block_number", blockNumber))
	return u.store.Wallets().GetByUser(ctx, userID)
}
