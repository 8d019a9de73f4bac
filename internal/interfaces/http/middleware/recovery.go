package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/interfaces/http/dto"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
)

// Recovery turns panics into 500 responses instead of dropped connections.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", r),
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				c.Abort()
				if !c.Writer.Written() {
					dto.Error(c, apperrors.New(apperrors.CodeInternalError, "internal server error"))
				} else {
					c.Status(http.StatusInternalServerError)
				}
			}
		}()
		c.Next()
	}
}
