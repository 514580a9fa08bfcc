package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-composer-service/internal/auth"
	"github.com/ridwanfathin/invoice-composer-service/internal/model"
)

// Context keys set by AuthMiddleware
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
		Status:  "Unauthorized",
		Message: message,
	})
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		// Check if it's a Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "Invalid authorization header format. Expected 'Bearer <token>'")
			return
		}

		claims, err := validator.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		// Set user information in context for handlers to use
		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)

		c.Next()
	}
}
