// Package middleware holds the gin middleware chain.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"textbook-assistant-api/internal/interfaces/http/dto"
	"textbook-assistant-api/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request an id, honoring one supplied by the
// client. The id rides on the response header and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(dto.RequestIDKey, id)
		c.Header(requestIDHeader, id)

		ctx := logger.WithContext(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
