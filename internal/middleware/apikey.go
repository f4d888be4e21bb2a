// Package middleware holds the gin middleware chain: API key resolution,
// rate limiting, and security headers.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NtshVrm/VYSONM2A2/internal/models"
	"github.com/NtshVrm/VYSONM2A2/internal/service"
)

const userContextKey = "user"

// APIKeyAuth resolves the X-API-Key header to a user via the access gate.
type APIKeyAuth struct {
	gate service.AccessGate
}

// NewAPIKeyAuth creates the API key middleware.
func NewAPIKeyAuth(gate service.AccessGate) *APIKeyAuth {
	return &APIKeyAuth{gate: gate}
}

// OptionalKey resolves the key when one is presented and lets the request
// through either way. An unknown key is treated the same as no key at
// all; handlers see an anonymous caller.
func (a *APIKeyAuth) OptionalKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := a.resolve(c); user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// RequireKey rejects requests without a valid key with 401.
func (a *APIKeyAuth) RequireKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := a.resolve(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "invalid or missing API key",
				Code:  models.ErrCodeUnauthorized,
			})
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

func (a *APIKeyAuth) resolve(c *gin.Context) *models.User {
	rawKey := c.GetHeader("X-API-Key")
	if rawKey == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	user, err := a.gate.ResolveKey(ctx, rawKey)
	if err != nil {
		// Store trouble resolving the key reads as anonymous rather
		// than failing every request on the chain.
		return nil
	}
	return user
}

// GetUserFromContext returns the authenticated user, or nil for an
// anonymous request.
func GetUserFromContext(c *gin.Context) *models.User {
	if val, exists := c.Get(userContextKey); exists {
		return val.(*models.User)
	}
	return nil
}
