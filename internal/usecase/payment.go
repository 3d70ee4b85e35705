package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
	"github.com/polkiloo/gencart/internal/metrics"
)

// ChainClient reads transaction state from a blockchain node.
type ChainClient interface {
	// Receipt returns nil without error while the transaction is not mined.
	Receipt(ctx context.Context, hash string) (*model.Receipt, error)
	Confirmations(ctx context.Context, hash string) (int64, error)
}

// RateOracle quotes the USD price of one unit of a cryptocurrency.
type RateOracle interface {
	USDRate(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// SignatureVerifier checks that signature was produced by address over message.
type SignatureVerifier interface {
	Verify(ctx context.Context, address, message, signature string) error
}

// PaymentSettings tunes the blockchain payment state machine.
type PaymentSettings struct {
	MerchantAddress  string
	TTL              time.Duration
	AutoConfirm      bool
	MinConfirmations int64
	TxTimeout        time.Duration
}

// Monitor check outcomes.
const (
	CheckPending   = "pending"
	CheckConfirmed = "confirmed"
	CheckFailed    = "failed"
	CheckExpired   = "expired"
	CheckError     = "error"
)

// Verdict is an externally delivered confirmation result for a transaction.
type Verdict struct {
	Hash          string
	Confirmed     bool
	BlockNumber   int64
	Confirmations int64
}

var ether = model.Cryptocurrency{Symbol: "ETH", Name: "Ethereum", Decimals: 18, IsActive: true}

// PaymentUseCase drives blockchain payments from initiation to a terminal status.
// Every transition is conditional on the current status, so re-delivered
// verdicts leave the state unchanged.
type PaymentUseCase struct {
	store    repository.Store
	chain    ChainClient
	rates    RateOracle
	settings PaymentSettings
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(store repository.Store, chain ChainClient, rates RateOracle, settings PaymentSettings, m *metrics.Metrics, logger *slog.Logger) *PaymentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentUseCase{
		store:    store,
		chain:    chain,
		rates:    rates,
		settings: settings,
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// InitiateForOrder records the wallet, transaction, wallet payment and blockchain
// payment for a placed order. The blockchain payment waits for confirmation
// unless auto confirmation is enabled.
func (u *PaymentUseCase) InitiateForOrder(ctx context.Context, order *model.Order, walletAddress, hash string) (*model.BlockchainPayment, error) {
	if hash == "" {
		return nil, domainErrors.Invalid("blockchain_transaction_hash", "is required")
	}
	rate, err := u.rates.USDRate(ctx, ether.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch %s rate: %w", ether.Symbol, err)
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("invalid %s rate %s", ether.Symbol, rate)
	}
	amount := order.TotalAmount.DivRound(rate, int32(ether.Decimals))
	now := u.now()

	var (
		payment     *model.BlockchainPayment
		transitions []string
	)
	err = u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		wallet, err := walletForCheckout(ctx, f, order.UserID, walletAddress, now)
		if err != nil {
			return err
		}
		currency, err := f.Wallets().EnsureCurrency(ctx, ether)
		if err != nil {
			return err
		}

		from := wallet.Address
		if walletAddress != "" {
			from = walletAddress
		}
		txn := &model.WalletTransaction{
			WalletID:    wallet.ID,
			Type:        model.TransactionTypePayment,
			CurrencyID:  currency.ID,
			Amount:      amount,
			FromAddress: from,
			ToAddress:   u.settings.MerchantAddress,
			Hash:        hash,
			Status:      model.TransactionStatusPending,
		}
		if err := f.Wallets().CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		wp := &model.WalletPayment{
			WalletID:      wallet.ID,
			OrderRef:      strconv.FormatInt(order.ID, 10),
			CurrencyID:    currency.ID,
			Amount:        amount,
			USDAmount:     order.TotalAmount,
			Status:        model.WalletPaymentPending,
			Hash:          hash,
			TransactionID: &txn.ID,
		}
		if err := f.Wallets().CreatePayment(ctx, wp); err != nil {
			return fmt.Errorf("create wallet payment: %w", err)
		}

		payment = &model.BlockchainPayment{
			OrderID:         order.ID,
			WalletPaymentID: wp.ID,
			Status:          model.BlockchainPaymentPendingConfirmation,
			InitiatedAt:     now,
			ExpiresAt:       now.Add(u.settings.TTL),
		}
		if err := f.Payments().Create(ctx, payment); err != nil {
			return fmt.Errorf("create blockchain payment: %w", err)
		}
		if err := enqueue(ctx, f, model.EventPaymentInitiated, orderAggregate(order.ID), paymentEvent{
			OrderID:         order.ID,
			PaymentID:       payment.ID.String(),
			TransactionHash: hash,
			Status:          string(payment.Status),
			Amount:          amount.String(),
		}); err != nil {
			return err
		}
		transitions = append(transitions, string(payment.Status))

		if u.settings.AutoConfirm {
			status, err := u.applyVerdict(ctx, f, txn, true)
			if err != nil {
				return err
			}
			if status != "" {
				transitions = append(transitions, status)
			}
			payment, err = f.Payments().GetByOrder(ctx, order.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, status := range transitions {
		u.metrics.PaymentTransition(status)
	}
	return payment, nil
}

func walletForCheckout(ctx context.Context, f repository.Factory, userID int64, address string, now time.Time) (*model.Wallet, error) {
	wallet, err := f.Wallets().GetByUser(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}
	if address == "" {
		address = model.UnknownWalletAddress
	}
	return f.Wallets().Create(ctx, model.Wallet{
		UserID:     userID,
		Address:    address,
		Type:       model.WalletTypeMetaMask,
		IsVerified: true,
		VerifiedAt: &now,
	})
}

// applyVerdict cascades a confirmed or failed verdict from the pending transaction
// to its wallet payment and blockchain payment, expired ones included. A
// transaction that already settled leaves everything untouched. It returns the
// new blockchain payment status, or an empty string when that payment did not change.
func (u *PaymentUseCase) applyVerdict(ctx context.Context, f repository.Factory, txn *model.WalletTransaction, confirmed bool) (string, error) {
	txStatus, wpStatus, bpStatus := model.TransactionStatusFailed, model.WalletPaymentFailed, model.BlockchainPaymentFailed
	eventType := model.EventPaymentFailed
	if confirmed {
		txStatus, wpStatus, bpStatus = model.TransactionStatusConfirmed, model.WalletPaymentConfirmed, model.BlockchainPaymentConfirmed
		eventType = model.EventPaymentConfirmed
	}

	settled, err := f.Wallets().SetTransactionStatus(ctx, txn.ID, txStatus, model.TransactionStatusPending)
	if err != nil || !settled {
		return "", err
	}
	wp, err := f.Wallets().GetPaymentByTransaction(ctx, txn.ID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if _, err := f.Wallets().SetPaymentStatus(ctx, wp.ID, wpStatus, model.WalletPaymentPending); err != nil {
		return "", err
	}

	bp, err := f.Payments().GetByWalletPayment(ctx, wp.ID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var confirmedAt *time.Time
	if confirmed {
		now := u.now()
		confirmedAt = &now
	}
	changed, err := f.Payments().SetStatus(ctx, bp.ID, bpStatus, confirmedAt, model.SettleableFrom...)
	if err != nil || !changed {
		return "", err
	}
	if confirmed {
		if err := f.Orders().MarkPaid(ctx, bp.OrderID); err != nil {
			return "", err
		}
	}
	if err := enqueue(ctx, f, eventType, orderAggregate(bp.OrderID), paymentEvent{
		OrderID:         bp.OrderID,
		PaymentID:       bp.ID.String(),
		TransactionHash: txn.Hash,
		Status:          string(bpStatus),
	}); err != nil {
		return "", err
	}
	return string(bpStatus), nil
}

// PendingTransactions returns up to limit transactions still awaiting a verdict, oldest first.
func (u *PaymentUseCase) PendingTransactions(ctx context.Context, limit int) ([]model.WalletTransaction, error) {
	return u.store.Wallets().ListPendingTransactions(ctx, limit)
}

// CheckTransaction polls the chain for one pending transaction and applies the
// result. Transactions without a receipt fail once they are older than the
// timeout; an open blockchain payment past its expiry becomes expired.
func (u *PaymentUseCase) CheckTransaction(ctx context.Context, txn model.WalletTransaction) (string, error) {
	outcome, err := u.checkTransaction(ctx, txn)
	if err != nil {
		outcome = CheckError
	}
	u.metrics.MonitorCheck(outcome)
	return outcome, err
}

func (u *PaymentUseCase) checkTransaction(ctx context.Context, txn model.WalletTransaction) (string, error) {
	receipt, err := u.chain.Receipt(ctx, txn.Hash)
	if err != nil {
		return "", fmt.Errorf("fetch receipt %s: %w", txn.Hash, err)
	}
	now := u.now()

	if receipt == nil {
		if now.Sub(txn.CreatedAt) > u.settings.TxTimeout {
			return u.settle(ctx, &txn, false)
		}
		return u.expireIfDue(ctx, &txn, now)
	}
	if !receipt.Succeeded {
		return u.settle(ctx, &txn, false)
	}

	confirmations, err := u.chain.Confirmations(ctx, txn.Hash)
	if err != nil {
		return "", fmt.Errorf("fetch confirmations %s: %w", txn.Hash, err)
	}
	if err := u.store.Wallets().RecordProgress(ctx, txn.ID, receipt.BlockNumber, confirmations, receipt.GasFee()); err != nil {
		return "", err
	}
	if confirmations < u.settings.MinConfirmations {
		return CheckPending, nil
	}
	return u.settle(ctx, &txn, true)
}

func (u *PaymentUseCase) settle(ctx context.Context, txn *model.WalletTransaction, confirmed bool) (string, error) {
	var status string
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		var err error
		status, err = u.applyVerdict(ctx, f, txn, confirmed)
		return err
	})
	if err != nil {
		return "", err
	}
	if status != "" {
		u.metrics.PaymentTransition(status)
	}
	if confirmed {
		return CheckConfirmed, nil
	}
	return CheckFailed, nil
}

func (u *PaymentUseCase) expireIfDue(ctx context.Context, txn *model.WalletTransaction, now time.Time) (string, error) {
	expired := false
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		wp, err := f.Wallets().GetPaymentByTransaction(ctx, txn.ID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		bp, err := f.Payments().GetByWalletPayment(ctx, wp.ID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !bp.Status.Open() || !bp.IsExpired(now) {
			return nil
		}
		expired, err = f.Payments().SetStatus(ctx, bp.ID, model.BlockchainPaymentExpired, nil,
			model.BlockchainPaymentInitiated, model.BlockchainPaymentPendingConfirmation)
		if err != nil || !expired {
			return err
		}
		return enqueue(ctx, f, model.EventPaymentExpired, orderAggregate(bp.OrderID), paymentEvent{
			OrderID:         bp.OrderID,
			PaymentID:       bp.ID.String(),
			TransactionHash: txn.Hash,
			Status:          string(model.BlockchainPaymentExpired),
		})
	})
	if err != nil {
		return "", err
	}
	if expired {
		u.metrics.PaymentTransition(string(model.BlockchainPaymentExpired))
		return CheckExpired, nil
	}
	return CheckPending, nil
}

// ApplyVerdict feeds an externally verified result into the state machine.
func (u *PaymentUseCase) ApplyVerdict(ctx context.Context, v Verdict) (*model.WalletTransaction, error) {
	if v.Hash == "" {
		return nil, domainErrors.Invalid("transaction_hash", "is required")
	}
	txn, err := u.store.Wallets().GetTransactionByHash(ctx, v.Hash)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.NotFound("transaction", v.Hash)
	}
	if err != nil {
		return nil, err
	}

	if v.Confirmed && v.BlockNumber > 0 && txn.Status == model.TransactionStatusPending {
		gasFee := decimal.Zero
		if txn.GasFee != nil {
			gasFee = *txn.GasFee
		}
		if err := u.store.Wallets().RecordProgress(ctx, txn.ID, v.BlockNumber, v.Confirmations, gasFee); err != nil {
			return nil, err
		}
	}
	if _, err := u.settle(ctx, txn, v.Confirmed); err != nil {
		return nil, err
	}
	return u.store.Wallets().GetTransaction(ctx, txn.ID)
}

// OrderPayment returns the blockchain payment of an order visible to the principal.
func (u *PaymentUseCase) OrderPayment(ctx context.Context, principal model.Principal, orderID int64) (*model.BlockchainPayment, error) {
	order, err := u.store.Orders().GetByID(ctx, orderID)
	if errors.Is(err, domainErrors.ErrNotFound) || (err == nil && !principal.CanAccess(order.UserID)) {
		return nil, domainErrors.NotFound("order", orderID)
	}
	if err != nil {
		return nil, err
	}
	payment, err := u.store.Payments().GetByOrder(ctx, orderID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.NotFound("payment", orderID)
	}
	return payment, err
}
