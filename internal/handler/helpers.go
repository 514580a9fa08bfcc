package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-composer-service/internal/middleware"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// getUserID returns the authenticated user set by the auth middleware
func getUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	return userID, userID != ""
}

// parseDate parses a date string in YYYY-MM-DD format
func parseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return date, nil
}

// parseDisposition accepts "attachment" (default) or "inline"
func parseDisposition(value string) (inline bool, err error) {
	switch value {
	case "", "attachment":
		return false, nil
	case "inline":
		return true, nil
	default:
		return false, fmt.Errorf("disposition must be attachment or inline")
	}
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}
