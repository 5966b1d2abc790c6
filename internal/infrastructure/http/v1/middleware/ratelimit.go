package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ledgerlens/internal/core/apperror"
	appctx "ledgerlens/internal/core/context"
	"ledgerlens/internal/infrastructure/ratelimit"
)

// RateLimit throttles requests per authenticated user, falling back to the
// client IP for anonymous calls. The limiter fails open when its backend is
// unreachable.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := appctx.GetUserID(c.Request.Context())
		if key == "" {
			key = c.ClientIP()
		}

		allowed, retryAfter := limiter.Allow(c.Request.Context(), key)
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			_ = c.Error(apperror.NewRateLimited(retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}
