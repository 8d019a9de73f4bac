package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/interfaces/http/dto"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
	"textbook-assistant-api/pkg/utils"
)

// Gin context keys set by Auth.
const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
)

// Auth validates the Bearer token and stores the caller's identity on
// the context.
func Auth(jwt *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWith(c, apperrors.New(apperrors.CodeTokenMissing, "authorization header missing"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortWith(c, apperrors.New(apperrors.CodeTokenInvalid, "authorization header malformed"))
			return
		}

		claims, err := jwt.ParseToken(token)
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				abortWith(c, apperrors.New(apperrors.CodeTokenExpired, "token expired"))
			} else {
				abortWith(c, apperrors.New(apperrors.CodeTokenInvalid, "token invalid"))
			}
			return
		}
		if claims.Type != "access" {
			abortWith(c, apperrors.New(apperrors.CodeTokenInvalid, "not an access token"))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)

		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
// Must run after Auth.
func RequireRole(roles ...entity.UserRole) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		if !allowed[role] {
			abortWith(c, apperrors.New(apperrors.CodeForbidden, "insufficient role"))
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, empty when the
// route is unauthenticated.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func abortWith(c *gin.Context, err error) {
	dto.Error(c, err)
	c.Abort()
}
