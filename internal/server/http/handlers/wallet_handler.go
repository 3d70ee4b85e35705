package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
	"github.com/polkiloo/gencart/internal/server/http/dto"
	"github.com/polkiloo/gencart/internal/usecase"
)

// WalletHandler serves the caller's crypto wallet.
type WalletHandler struct {
	facade WalletFacade
}

func NewWalletHandler(facade WalletFacade) *WalletHandler {
	return &WalletHandler{facade: facade}
}

// Connect handles POST /api/wallet.
func (h *WalletHandler) Connect(c *gin.Context) {
	var req dto.ConnectWalletRequest
	if !bindJSON(c, &req) {
		return
	}
	wallet, err := h.facade.ConnectWallet(c.Request.Context(), CurrentUserID(c), req.Address, req.WalletType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWalletResponse(*wallet))
}

// Verify handles POST /api/wallet/verify.
func (h *WalletHandler) Verify(c *gin.Context) {
	var req dto.VerifyWalletRequest
	if !bindJSON(c, &req) {
		return
	}
	wallet, err := h.facade.VerifyWallet(c.Request.Context(), CurrentUserID(c), usecase.WalletVerification{
		Address:   req.Address,
		Message:   req.Message,
		Signature: req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWalletResponse(*wallet))
}

// Summary handles GET /api/wallet.
func (h *WalletHandler) Summary(c *gin.Context) {
	summary, err := h.facade.WalletSummary(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WalletSummaryResponse{
		Wallet:            toWalletResponse(summary.Wallet),
		TotalTransactions: summary.TotalTransactions,
		TotalPayments:     summary.TotalPayments,
		PendingPayments:   summary.PendingPayments,
	})
}

// Transactions handles GET /api/wallet/transactions?status=&type=.
func (h *WalletHandler) Transactions(c *gin.Context) {
	filter := repository.TransactionFilter{
		Status: model.TransactionStatus(c.Query("status")),
		Type:   model.TransactionType(c.Query("type")),
	}
	txns, err := h.facade.WalletTransactions(c.Request.Context(), CurrentUserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, toTransactionResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// Payments handles GET /api/wallet/payments?status=.
func (h *WalletHandler) Payments(c *gin.Context) {
	payments, err := h.facade.WalletPayments(c.Request.Context(), CurrentUserID(c), model.WalletPaymentStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.WalletPaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, toWalletPaymentResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// InitiatePayment handles POST /api/wallet/payments.
func (h *WalletHandler) InitiatePayment(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.facade.InitiateWalletPayment(c.Request.Context(), CurrentUserID(c), usecase.WalletPaymentRequest{
		OrderRef:  req.OrderID,
		Currency:  req.Currency,
		Amount:    req.Amount,
		USDAmount: req.USDAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWalletPaymentResponse(*payment))
}

// SetBalance handles POST /api/admin/wallets/:userID/balance.
func (h *WalletHandler) SetBalance(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	var req dto.SetBalanceRequest
	if !bindJSON(c, &req) {
		return
	}
	wallet, err := h.facade.SetWalletBalance(c.Request.Context(), CurrentPrincipal(c), userID, req.Balance, req.BlockNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWalletResponse(*wallet))
}
