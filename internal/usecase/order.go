package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
	"github.com/polkiloo/gencart/internal/metrics"
)

// PaymentMethodBlockchain selects the blockchain payment flow at checkout.
const PaymentMethodBlockchain = "blockchain"

// CheckoutRequest carries the caller supplied checkout fields.
type CheckoutRequest struct {
	ShippingAddressID int64
	BillingAddressID  int64
	PaymentMethod     string
	TransactionHash   string
	Network           string
	WalletAddress     string
}

// PaymentInitiator starts blockchain payment bookkeeping for a placed order.
type PaymentInitiator interface {
	InitiateForOrder(ctx context.Context, order *model.Order, walletAddress, hash string) (*model.BlockchainPayment, error)
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	store    repository.Store
	shipping ShippingPolicy
	payments PaymentInitiator
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(store repository.Store, shipping ShippingPolicy, payments PaymentInitiator, m *metrics.Metrics, logger *slog.Logger) *OrderUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUseCase{store: store, shipping: shipping, payments: payments, metrics: m, logger: logger}
}

// Checkout converts the caller's cart into an order. Validation, order creation,
// inventory debits and clearing the cart commit together or not at all.
func (u *OrderUseCase) Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*model.Order, error) {
	var order *model.Order
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		var err error
		order, err = u.placeOrder(ctx, f, userID, req)
		return err
	})
	u.metrics.Checkout(checkoutResult(err))
	if err != nil {
		return nil, err
	}

	if req.PaymentMethod == PaymentMethodBlockchain && req.TransactionHash != "" && u.payments != nil {
		if _, err := u.payments.InitiateForOrder(ctx, order, req.WalletAddress, req.TransactionHash); err != nil {
			u.logger.Error("failed to initiate blockchain payment",
				slog.Int64("order_id", order.ID),
				slog.String("transaction_hash", req.TransactionHash),
				slog.Any("error", err))
		}
	}

	placed, err := u.store.Orders().GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func (u *OrderUseCase) placeOrder(ctx context.Context, f repository.Factory, userID int64, req CheckoutRequest) (*model.Order, error) {
	cart, err := f.Carts().LockByUser(ctx, userID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.NotFound("cart", nil)
	}
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domainErrors.ErrEmptyCart
	}

	var shortages []domainErrors.Shortage
	for _, item := range cart.Items {
		if item.Quantity > item.Product.Inventory {
			shortages = append(shortages, domainErrors.Shortage{
				ProductID: item.Product.ID,
				Product:   item.Product.Name,
				Available: item.Product.Inventory,
				Requested: item.Quantity,
			})
		}
	}
	if len(shortages) > 0 {
		return nil, &domainErrors.StockError{Shortages: shortages}
	}

	if _, err := f.Addresses().GetForUser(ctx, req.ShippingAddressID, userID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NotFound("shipping address", req.ShippingAddressID)
		}
		return nil, err
	}
	if _, err := f.Addresses().GetForUser(ctx, req.BillingAddressID, userID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NotFound("billing address", req.BillingAddressID)
		}
		return nil, err
	}

	subtotal := cart.Total()
	shipping, total := u.shipping.Quote(subtotal)
	order := &model.Order{
		UserID:            userID,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		Subtotal:          subtotal,
		ShippingCost:      shipping,
		TotalAmount:       total,
		Status:            model.OrderStatusPending,
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Product.EffectivePrice(),
		})
	}
	if err := f.Orders().Create(ctx, order); err != nil {
		return nil, err
	}

	for _, item := range cart.Items {
		ok, err := f.Products().Debit(ctx, item.Product.ID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Stock changed after the cart was read.
			current, err := f.Products().GetByID(ctx, item.Product.ID)
			if err != nil {
				return nil, err
			}
			return nil, &domainErrors.StockError{Shortages: []domainErrors.Shortage{{
				ProductID: current.ID,
				Product:   current.Name,
				Available: current.Inventory,
				Requested: item.Quantity,
			}}}
		}
	}

	if err := f.Carts().Clear(ctx, cart.ID); err != nil {
		return nil, err
	}

	if err := enqueue(ctx, f, model.EventOrderCreated, orderAggregate(order.ID), orderEvent{
		OrderID: order.ID,
		UserID:  userID,
		Status:  string(order.Status),
		Total:   order.TotalAmount.StringFixed(2),
	}); err != nil {
		return nil, err
	}
	return order, nil
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domainErrors.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domainErrors.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domainErrors.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Get returns an order visible to the principal.
func (u *OrderUseCase) Get(ctx context.Context, principal model.Principal, id int64) (*model.Order, error) {
	order, err := u.store.Orders().GetByID(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.NotFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(order.UserID) {
		return nil, domainErrors.NotFound("order", id)
	}
	return order, nil
}

// List returns the caller's orders, or every order for staff.
func (u *OrderUseCase) List(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	if principal.IsStaff {
		return u.store.Orders().ListAll(ctx)
	}
	return u.store.Orders().ListByUser(ctx, principal.UserID)
}

// ListByUser returns the orders of an arbitrary user and is restricted to staff.
func (u *OrderUseCase) ListByUser(ctx context.Context, principal model.Principal, userID int64) ([]model.Order, error) {
	if !principal.IsStaff {
		return nil, domainErrors.ErrForbidden
	}
	return u.store.Orders().ListByUser(ctx, userID)
}

// Cancel returns the order's stock to inventory and marks it cancelled.
// Payment state is left as it is.
func (u *OrderUseCase) Cancel(ctx context.Context, principal model.Principal, id int64) (*model.Order, error) {
	var order *model.Order
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		var err error
		order, err = cancelOrder(ctx, f, principal, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.metrics.OrderCancelled()
	return order, nil
}

func cancelOrder(ctx context.Context, f repository.Factory, principal model.Principal, id int64) (*model.Order, error) {
	order, err := f.Orders().GetByID(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.NotFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(order.UserID) {
		return nil, domainErrors.NotFound("order", id)
	}
	if !order.Status.Cancellable() {
		return nil, &domainErrors.OrderStatusError{Status: string(order.Status)}
	}

	changed, err := f.Orders().SetStatus(ctx, id, model.OrderStatusCancelled,
		model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusShipped)
	if err != nil {
		return nil, err
	}
	if !changed {
		current, err := f.Orders().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &domainErrors.OrderStatusError{Status: string(current.Status)}
	}

	for _, item := range order.Items {
		if err := f.Products().Credit(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := enqueue(ctx, f, model.EventOrderCancelled, orderAggregate(id), orderEvent{
		OrderID: id,
		UserID:  order.UserID,
		Status:  string(model.OrderStatusCancelled),
	}); err != nil {
		return nil, err
	}
	return f.Orders().GetByID(ctx, id)
}

// UpdateStatus applies a staff status change. Moving to cancelled goes through
// cancellation; a cancelled order cannot be moved at all.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, principal model.Principal, id int64, raw string) (*model.Order, error) {
	if !principal.IsStaff {
		return nil, domainErrors.ErrForbidden
	}
	status, ok := model.ParseOrderStatus(raw)
	if !ok {
		return nil, domainErrors.ErrInvalidStatus
	}
	if status == model.OrderStatusCancelled {
		return u.Cancel(ctx, principal, id)
	}

	var order *model.Order
	err := u.store.WithinTransaction(ctx, func(f repository.Factory) error {
		current, err := f.Orders().GetByID(ctx, id)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.NotFound("order", id)
		}
		if err != nil {
			return err
		}
		if current.Status == model.OrderStatusCancelled {
			return domainErrors.Invalid("status", "cancelled orders cannot change status")
		}

		changed, err := f.Orders().SetStatus(ctx, id, status,
			model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusShipped, model.OrderStatusDelivered)
		if err != nil {
			return err
		}
		if !changed {
			return domainErrors.Invalid("status", "cancelled orders cannot change status")
		}
		if current.Status != status {
			if err := enqueue(ctx, f, model.EventOrderStatusChanged, orderAggregate(id), orderEvent{
				OrderID: id,
				UserID:  current.UserID,
				Status:  string(status),
			}); err != nil {
				return err
			}
		}
		order, err = f.Orders().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func orderAggregate(id int64) string {
	return "order-" + strconv.FormatInt(id, 10)
}
