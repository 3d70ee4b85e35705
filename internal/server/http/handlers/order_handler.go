package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gencart/internal/server/http/dto"
	"github.com/polkiloo/gencart/internal/usecase"
)

const (
	// IdempotencyKeyHeader carries the client key that makes checkout retries safe.
	IdempotencyKeyHeader = "Idempotency-Key"
	// WebhookSecretHeader carries the shared secret of the external payment verifier.
	WebhookSecretHeader = "X-Webhook-Secret"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders. A replayed idempotency key answers 200
// with the original order instead of 201.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	order, replayed, err := h.facade.Checkout(c.Request.Context(), CurrentUserID(c), key, usecase.CheckoutRequest{
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		PaymentMethod:     req.PaymentMethod,
		TransactionHash:   req.TransactionHash,
		Network:           req.Network,
		WalletAddress:     req.WalletAddress,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	c.JSON(status, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(orders))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.CancelOrder(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Payment handles GET /api/orders/:id/payment.
func (h *OrderHandler) Payment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payment, err := h.facade.OrderPayment(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBlockchainPaymentResponse(payment))
}

// ListByUser handles GET /api/admin/orders/by-user/:userID.
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	orders, err := h.facade.OrdersByUser(c.Request.Context(), CurrentPrincipal(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(orders))
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), CurrentPrincipal(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// PaymentWebhook handles POST /api/payments/webhook. It is not behind
// AuthRequired; the verifier authenticates with WebhookSecretHeader.
func (h *OrderHandler) PaymentWebhook(c *gin.Context) {
	var req dto.PaymentWebhookRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.facade.ApplyPaymentVerdict(c.Request.Context(), c.GetHeader(WebhookSecretHeader), usecase.Verdict{
		Hash:          req.TransactionHash,
		Confirmed:     req.Confirmed,
		BlockNumber:   req.BlockNumber,
		Confirmations: req.Confirmations,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(*txn))
}
