package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	pkgAuth "github.com/polkiloo/gencart/internal/pkg/auth"
	"github.com/polkiloo/gencart/internal/server/http/dto"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	// PrincipalContextKey holds the model.Principal of the caller.
	PrincipalContextKey = "principal"
	authCookieName      = "gencart_token"
)

// Authenticator resolves bearer tokens into principals.
type Authenticator interface {
	ParseToken(token string) (int64, error)
	Principal(ctx context.Context, userID int64) (model.Principal, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := auth.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abortUnauthorized(c)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		principal, err := auth.Principal(c.Request.Context(), userID)
		if err != nil {
			// token of a user that no longer exists
			if errors.Is(err, domainErrors.ErrNotFound) {
				abortUnauthorized(c)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// StaffRequired rejects callers without the staff flag. It must run after AuthRequired.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, _ := c.Get(PrincipalContextKey)
		principal, _ := val.(model.Principal)
		if !principal.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Detail: "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Detail: "Authentication credentials were not provided or are invalid."})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
