package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/server/http/dto"
)

// CatalogHandler serves products and the caller's addresses.
type CatalogHandler struct {
	facade CatalogFacade
}

func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Products handles GET /api/products.
func (h *CatalogHandler) Products(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Product handles GET /api/products/:id.
func (h *CatalogHandler) Product(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// CreateProduct handles POST /api/admin/products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.facade.CreateProduct(c.Request.Context(), CurrentPrincipal(c), model.Product{
		Name:          req.Name,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Inventory:     req.Inventory,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// AddAddress handles POST /api/user/addresses.
func (h *CatalogHandler) AddAddress(c *gin.Context) {
	var req dto.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	addr, err := h.facade.AddAddress(c.Request.Context(), CurrentUserID(c), model.Address{
		FullName:   req.FullName,
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAddressResponse(*addr))
}

// Addresses handles GET /api/user/addresses.
func (h *CatalogHandler) Addresses(c *gin.Context) {
	addresses, err := h.facade.Addresses(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		resp = append(resp, toAddressResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}
