package middleware

import (
	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/infrastructure/persistence/redis"
	"textbook-assistant-api/internal/interfaces/http/dto"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
)

// RateLimit enforces the sliding-window limiter per caller. Authenticated
// requests are keyed by user id, anonymous ones by client IP. Limiter
// outages fail open.
func RateLimit(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var key string
		if userID := CurrentUserID(c); userID != "" {
			key = redis.UserKey(userID)
		} else {
			key = redis.IPKey(c.ClientIP())
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			dto.Error(c, apperrors.New(apperrors.CodeTooManyRequests, "rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}
