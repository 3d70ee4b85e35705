package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/server/http/dto"
	"github.com/polkiloo/gencart/internal/usecase"
)

// CartHandler manages the caller's cart. Every operation responds with the full cart.
type CartHandler struct {
	facade CartFacade
}

func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondError(c, domainErrors.Invalid("product_id", "is required"))
		return
	}
	qty, err := usecase.ParseQuantity(string(req.Quantity))
	if err != nil {
		respondError(c, err)
		return
	}

	cart, err := h.facade.AddCartItem(c.Request.Context(), CurrentUserID(c), req.ProductID, qty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// UpdateItem handles PATCH /api/cart/items/:id.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	qty, err := usecase.ParseQuantity(string(req.Quantity))
	if err != nil {
		respondError(c, err)
		return
	}

	cart, err := h.facade.UpdateCartItem(c.Request.Context(), CurrentUserID(c), itemID, qty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// RemoveItem handles DELETE /api/cart/items/:id.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cart, err := h.facade.RemoveCartItem(c.Request.Context(), CurrentUserID(c), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.facade.ClearCart(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}
