package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	pkgAuth "github.com/polkiloo/gencart/internal/pkg/auth"
	"github.com/polkiloo/gencart/internal/server/http/dto"
	"github.com/polkiloo/gencart/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentPrincipal extracts the authenticated caller from context.
func CurrentPrincipal(c *gin.Context) model.Principal {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return model.Principal{UserID: CurrentUserID(c)}
	}
	principal, _ := val.(model.Principal)
	return principal
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, domainErrors.Invalid(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "Malformed request body.", Errors: []string{err.Error()}})
		return false
	}
	return true
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var stock *domainErrors.StockError
	switch {
	case errors.As(err, &stock):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "Insufficient stock.", Errors: stock.Messages()})
	case errors.Is(err, domainErrors.ErrValidation),
		errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrOrderNotCancellable),
		errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrWalletNotVerified),
		errors.Is(err, domainErrors.ErrInsufficientWalletBalance),
		errors.Is(err, domainErrors.ErrWalletAddressMismatch),
		errors.Is(err, domainErrors.ErrInvalidSignature):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Detail: "You do not have permission to perform this action."})
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, pkgAuth.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, domainErrors.ErrAlreadyExists), errors.Is(err, domainErrors.ErrIdempotencyConflict):
		c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{Detail: err.Error()})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: "Internal server error."})
	}
}
