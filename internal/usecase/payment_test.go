package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/metrics"
)

const merchant = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

type chainStub struct {
	receipts      map[string]*model.Receipt
	confirmations int64
	err           error
}

func (c *chainStub) Receipt(_ context.Context, hash string) (*model.Receipt, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.receipts[hash], nil
}

func (c *chainStub) Confirmations(context.Context, string) (int64, error) {
	return c.confirmations, nil
}

type rateStub struct {
	rate decimal.Decimal
	err  error
}

func (r rateStub) USDRate(context.Context, string) (decimal.Decimal, error) {
	return r.rate, r.err
}

func defaultPaymentSettings() PaymentSettings {
	return PaymentSettings{
		MerchantAddress:  merchant,
		TTL:              time.Hour,
		MinConfirmations: 12,
		TxTimeout:        24 * time.Hour,
	}
}

type paymentFixture struct {
	*shopFixture
	chain    *chainStub
	metrics  *metrics.Metrics
	payments *PaymentUseCase
	orders   *OrderUseCase
}

func newPaymentFixture(t *testing.T, settings PaymentSettings) *paymentFixture {
	t.Helper()
	shop := newShopFixture(t)
	chain := &chainStub{receipts: map[string]*model.Receipt{}}
	m := metrics.New()
	payments := NewPaymentUseCase(shop.store, chain, rateStub{rate: decimal.NewFromInt(2000)}, settings, m, nil)
	return &paymentFixture{
		shopFixture: shop,
		chain:       chain,
		metrics:     m,
		payments:    payments,
		orders:      NewOrderUseCase(shop.store, defaultShipping, payments, m, nil),
	}
}

func (p *paymentFixture) checkoutWithHash(t *testing.T, hash string) *model.Order {
	t.Helper()
	p.fillCart(t)
	req := p.checkoutRequest()
	req.PaymentMethod = PaymentMethodBlockchain
	req.TransactionHash = hash
	order, err := p.orders.Checkout(context.Background(), p.user.ID, req)
	require.NoError(t, err)
	return order
}

func (p *paymentFixture) transaction(t *testing.T, hash string) *model.WalletTransaction {
	t.Helper()
	txn, err := p.store.Wallets().GetTransactionByHash(context.Background(), hash)
	require.NoError(t, err)
	return txn
}

func (p *paymentFixture) blockchainPayment(t *testing.T, orderID int64) *model.BlockchainPayment {
	t.Helper()
	bp, err := p.store.Payments().GetByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return bp
}

func (p *paymentFixture) order(t *testing.T, id int64) *model.Order {
	t.Helper()
	order, err := p.store.Orders().GetByID(context.Background(), id)
	require.NoError(t, err)
	return order
}

func (p *paymentFixture) eventTypes(t *testing.T) []string {
	t.Helper()
	var types []string
	for _, evt := range p.pendingEvents(t) {
		types = append(types, evt.Type)
	}
	return types
}

func TestInitiateForOrderAwaitsConfirmation(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0xaaa")
	ctx := context.Background()

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.False(t, order.PaymentStatus)

	bp := p.blockchainPayment(t, order.ID)
	assert.Equal(t, model.BlockchainPaymentPendingConfirmation, bp.Status)
	assert.Equal(t, time.Hour, bp.ExpiresAt.Sub(bp.InitiatedAt))

	txn := p.transaction(t, "0xaaa")
	assert.Equal(t, model.TransactionStatusPending, txn.Status)
	assert.Equal(t, model.TransactionTypePayment, txn.Type)
	assert.Equal(t, merchant, txn.ToAddress)
	assert.Equal(t, model.UnknownWalletAddress, txn.FromAddress)
	// 90.00 USD at 2000 USD per ETH
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("0.045")), txn.Amount.String())

	wp, err := p.store.Wallets().GetPaymentByTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WalletPaymentPending, wp.Status)
	assert.Equal(t, "1", wp.OrderRef)
	assert.Equal(t, bp.WalletPaymentID, wp.ID)
	assert.True(t, wp.USDAmount.Equal(order.TotalAmount))

	wallet, err := p.store.Wallets().GetByUser(ctx, p.user.ID)
	require.NoError(t, err)
	assert.True(t, wallet.IsVerified)
	assert.Equal(t, model.WalletTypeMetaMask, wallet.Type)

	assert.Equal(t, []string{model.EventOrderCreated, model.EventPaymentInitiated}, p.eventTypes(t))
}

func TestInitiateForOrderAutoConfirm(t *testing.T) {
	settings := defaultPaymentSettings()
	settings.AutoConfirm = true
	p := newPaymentFixture(t, settings)
	order := p.checkoutWithHash(t, "0xbbb")

	assert.Equal(t, model.OrderStatusProcessing, order.Status)
	assert.True(t, order.PaymentStatus)

	bp := p.blockchainPayment(t, order.ID)
	assert.Equal(t, model.BlockchainPaymentConfirmed, bp.Status)
	require.NotNil(t, bp.ConfirmedAt)
	assert.Equal(t, model.TransactionStatusConfirmed, p.transaction(t, "0xbbb").Status)

	assertMetrics(t, p.metrics, `
# HELP gencart_payment_transitions_total Blockchain payment state transitions by target status.
# TYPE gencart_payment_transitions_total counter
gencart_payment_transitions_total{status="confirmed"} 1
gencart_payment_transitions_total{status="pending_confirmation"} 1
`, "gencart_payment_transitions_total")
}

func TestInitiateForOrderRejectsBadRate(t *testing.T) {
	shop := newShopFixture(t)
	order := &model.Order{ID: 1, UserID: shop.user.ID, TotalAmount: decimal.NewFromInt(10)}

	uc := NewPaymentUseCase(shop.store, &chainStub{}, rateStub{err: errors.New("oracle down")}, defaultPaymentSettings(), nil, nil)
	_, err := uc.InitiateForOrder(context.Background(), order, "", "0x1")
	require.Error(t, err)

	uc = NewPaymentUseCase(shop.store, &chainStub{}, rateStub{rate: decimal.Zero}, defaultPaymentSettings(), nil, nil)
	_, err = uc.InitiateForOrder(context.Background(), order, "", "0x1")
	require.Error(t, err)

	_, err = uc.InitiateForOrder(context.Background(), order, "", "")
	assert.ErrorIs(t, err, domainErrors.ErrValidation)
}

func TestCheckTransactionConfirmsAfterEnoughConfirmations(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0xccc")
	ctx := context.Background()

	p.chain.receipts["0xccc"] = &model.Receipt{
		Hash:              "0xccc",
		BlockNumber:       100,
		GasUsed:           21000,
		EffectiveGasPrice: decimal.NewFromInt(20_000_000_000),
		Succeeded:         true,
	}
	p.chain.confirmations = 3

	outcome, err := p.payments.CheckTransaction(ctx, *p.transaction(t, "0xccc"))
	require.NoError(t, err)
	assert.Equal(t, CheckPending, outcome)

	txn := p.transaction(t, "0xccc")
	require.NotNil(t, txn.BlockNumber)
	assert.Equal(t, int64(100), *txn.BlockNumber)
	assert.Equal(t, int64(3), txn.ConfirmationCount)
	require.NotNil(t, txn.GasFee)
	assert.True(t, txn.GasFee.Equal(decimal.RequireFromString("0.00042")))

	p.chain.confirmations = 12
	outcome, err = p.payments.CheckTransaction(ctx, *txn)
	require.NoError(t, err)
	assert.Equal(t, CheckConfirmed, outcome)

	got := p.order(t, order.ID)
	assert.Equal(t, model.OrderStatusProcessing, got.Status)
	assert.True(t, got.PaymentStatus)
	assert.Equal(t, model.BlockchainPaymentConfirmed, p.blockchainPayment(t, order.ID).Status)

	// a second verdict is a no-op
	outcome, err = p.payments.CheckTransaction(ctx, *txn)
	require.NoError(t, err)
	assert.Equal(t, CheckConfirmed, outcome)
	assert.Equal(t, []string{model.EventOrderCreated, model.EventPaymentInitiated, model.EventPaymentConfirmed}, p.eventTypes(t))

	assertMetrics(t, p.metrics, `
# HELP gencart_monitor_checks_total Pending transaction checks by outcome.
# TYPE gencart_monitor_checks_total counter
gencart_monitor_checks_total{outcome="confirmed"} 2
gencart_monitor_checks_total{outcome="pending"} 1
`, "gencart_monitor_checks_total")
}

func TestCheckTransactionFailsAfterTimeoutWithoutTouchingOrder(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0xddd")
	txn := p.transaction(t, "0xddd")

	p.payments.now = func() time.Time { return txn.CreatedAt.Add(25 * time.Hour) }
	outcome, err := p.payments.CheckTransaction(context.Background(), *txn)
	require.NoError(t, err)
	assert.Equal(t, CheckFailed, outcome)

	assert.Equal(t, model.TransactionStatusFailed, p.transaction(t, "0xddd").Status)
	assert.Equal(t, model.BlockchainPaymentFailed, p.blockchainPayment(t, order.ID).Status)
	got := p.order(t, order.ID)
	assert.Equal(t, model.OrderStatusPending, got.Status)
	assert.False(t, got.PaymentStatus)
	assert.Contains(t, p.eventTypes(t), model.EventPaymentFailed)
}

func TestCheckTransactionFailsOnRevertedReceipt(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0xeee")
	p.chain.receipts["0xeee"] = &model.Receipt{Hash: "0xeee", BlockNumber: 7, Succeeded: false}

	outcome, err := p.payments.CheckTransaction(context.Background(), *p.transaction(t, "0xeee"))
	require.NoError(t, err)
	assert.Equal(t, CheckFailed, outcome)
	assert.Equal(t, model.BlockchainPaymentFailed, p.blockchainPayment(t, order.ID).Status)
}

func TestCheckTransactionExpiresOpenPayment(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0xfff")
	txn := p.transaction(t, "0xfff")
	ctx := context.Background()

	outcome, err := p.payments.CheckTransaction(ctx, *txn)
	require.NoError(t, err)
	assert.Equal(t, CheckPending, outcome)

	p.payments.now = func() time.Time { return txn.CreatedAt.Add(2 * time.Hour) }
	outcome, err = p.payments.CheckTransaction(ctx, *txn)
	require.NoError(t, err)
	assert.Equal(t, CheckExpired, outcome)
	assert.Equal(t, model.BlockchainPaymentExpired, p.blockchainPayment(t, order.ID).Status)
	assert.Equal(t, model.TransactionStatusPending, p.transaction(t, "0xfff").Status, "the transaction keeps being watched")

	// expiry is reported once
	outcome, err = p.payments.CheckTransaction(ctx, *txn)
	require.NoError(t, err)
	assert.Equal(t, CheckPending, outcome)
}

func TestLateConfirmationSettlesExpiredPayment(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0xfff")
	txn := p.transaction(t, "0xfff")
	ctx := context.Background()

	p.payments.now = func() time.Time { return txn.CreatedAt.Add(2 * time.Hour) }
	_, err := p.payments.CheckTransaction(ctx, *txn)
	require.NoError(t, err)
	require.Equal(t, model.BlockchainPaymentExpired, p.blockchainPayment(t, order.ID).Status)

	p.chain.receipts["0xfff"] = &model.Receipt{Hash: "0xfff", BlockNumber: 9, Succeeded: true}
	p.chain.confirmations = 20
	outcome, err := p.payments.CheckTransaction(ctx, *txn)
	require.NoError(t, err)
	assert.Equal(t, CheckConfirmed, outcome)

	assert.Equal(t, model.TransactionStatusConfirmed, p.transaction(t, "0xfff").Status)
	bp := p.blockchainPayment(t, order.ID)
	assert.Equal(t, model.BlockchainPaymentConfirmed, bp.Status)
	require.NotNil(t, bp.ConfirmedAt)
	wp, err := p.store.Wallets().GetPaymentByTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WalletPaymentConfirmed, wp.Status)
	got := p.order(t, order.ID)
	assert.True(t, got.PaymentStatus)
	assert.Equal(t, model.OrderStatusProcessing, got.Status)
}

func TestUnminedTransactionFailsExpiredPayment(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0xabc")
	txn := p.transaction(t, "0xabc")
	ctx := context.Background()

	for _, offset := range []time.Duration{2 * time.Hour, 25 * time.Hour} {
		p.payments.now = func() time.Time { return txn.CreatedAt.Add(offset) }
		_, err := p.payments.CheckTransaction(ctx, *txn)
		require.NoError(t, err)
	}

	assert.Equal(t, model.TransactionStatusFailed, p.transaction(t, "0xabc").Status)
	assert.Equal(t, model.BlockchainPaymentFailed, p.blockchainPayment(t, order.ID).Status)
	wp, err := p.store.Wallets().GetPaymentByTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WalletPaymentFailed, wp.Status)
	assert.Equal(t, model.OrderStatusPending, p.order(t, order.ID).Status)
}

func TestCheckTransactionReportsChainErrors(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	p.checkoutWithHash(t, "0x123")
	p.chain.err = errors.New("rpc unavailable")

	outcome, err := p.payments.CheckTransaction(context.Background(), *p.transaction(t, "0x123"))
	require.Error(t, err)
	assert.Equal(t, CheckError, outcome)
	assert.Equal(t, model.TransactionStatusPending, p.transaction(t, "0x123").Status)
}

func TestApplyVerdict(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0x456")
	ctx := context.Background()

	_, err := p.payments.ApplyVerdict(ctx, Verdict{Hash: "0xmissing", Confirmed: true})
	var nf *domainErrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "transaction", nf.Entity)

	_, err = p.payments.ApplyVerdict(ctx, Verdict{})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	txn, err := p.payments.ApplyVerdict(ctx, Verdict{Hash: "0x456", Confirmed: true, BlockNumber: 55, Confirmations: 12})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusConfirmed, txn.Status)
	require.NotNil(t, txn.BlockNumber)
	assert.Equal(t, int64(55), *txn.BlockNumber)
	assert.True(t, p.order(t, order.ID).PaymentStatus)

	// a conflicting late verdict leaves the confirmed state alone
	txn, err = p.payments.ApplyVerdict(ctx, Verdict{Hash: "0x456", Confirmed: false})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusConfirmed, txn.Status)
	assert.Equal(t, model.BlockchainPaymentConfirmed, p.blockchainPayment(t, order.ID).Status)
}

func TestConfirmationKeepsCancelledOrderCancelled(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0x789")
	ctx := context.Background()

	_, err := p.orders.Cancel(ctx, model.Principal{UserID: p.user.ID}, order.ID)
	require.NoError(t, err)

	_, err = p.payments.ApplyVerdict(ctx, Verdict{Hash: "0x789", Confirmed: true})
	require.NoError(t, err)
	got := p.order(t, order.ID)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)
	assert.True(t, got.PaymentStatus)
}

func TestOrderPayment(t *testing.T) {
	p := newPaymentFixture(t, defaultPaymentSettings())
	order := p.checkoutWithHash(t, "0xabc")
	ctx := context.Background()

	bp, err := p.payments.OrderPayment(ctx, model.Principal{UserID: p.user.ID}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, bp.OrderID)

	_, err = p.payments.OrderPayment(ctx, model.Principal{UserID: p.other.ID}, order.ID)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)

	_, err = p.payments.OrderPayment(ctx, staff, 999)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)

	pending, err := p.payments.PendingTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
