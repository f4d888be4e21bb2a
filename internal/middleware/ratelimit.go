package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NtshVrm/VYSONM2A2/internal/database"
	"github.com/NtshVrm/VYSONM2A2/internal/models"
)

// RateLimiter counts requests per identifier in one-minute windows using
// Redis INCR with expiry. Authenticated requests are keyed by user id,
// anonymous ones by client IP. Redis trouble fails open.
type RateLimiter struct {
	redis      *database.RedisDB
	limit      int
	windowSize time.Duration
}

// NewRateLimiter creates a new rate limiter middleware.
func NewRateLimiter(redis *database.RedisDB, limit int) *RateLimiter {
	return &RateLimiter{
		redis:      redis,
		limit:      limit,
		windowSize: time.Minute,
	}
}

// Middleware returns the gin handler. Must run after API key resolution
// so authenticated callers are counted per user rather than per IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := rl.clientIdentifier(c)
		if user := GetUserFromContext(c); user != nil {
			identifier = user.ID.String()
		}

		window := time.Now().Truncate(rl.windowSize)
		key := database.RateLimitKey(identifier, window)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := rl.redis.IncrementRateLimit(ctx, key, rl.windowSize)
		if err != nil {
			c.Next()
			return
		}

		remaining := rl.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", window.Add(rl.windowSize).Unix()))

		if int(count) > rl.limit {
			retryAfter := rl.windowSize - time.Since(window)
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))

			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    models.ErrCodeRateLimited,
				Details: fmt.Sprintf("try again in %d seconds", int(retryAfter.Seconds())),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// clientIdentifier prefers proxy headers over the direct peer address.
// X-Forwarded-For is only trustworthy behind a configured proxy.
func (rl *RateLimiter) clientIdentifier(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
