package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/earnings"
	"github.com/ridwanfathin/invoice-composer-service/internal/model"
	"github.com/ridwanfathin/invoice-composer-service/internal/pdf"
	"github.com/ridwanfathin/invoice-composer-service/internal/repository"
)

// Common error messages
const (
	ErrInvalidInput       = "Invalid input format"
	ErrInvalidQueryParams = "Invalid query parameters"
	ErrInvoiceNotFound    = "Invoice not found"
	ErrMissingData        = "Invoice is missing required data"
	ErrInvalidAmount      = "Invoice contains an invalid amount"
	ErrInternalServer     = "Internal server error"
	ErrNotAuthenticated   = "User not authenticated"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, message string, details ...model.ErrorDetail) {
	c.AbortWithStatusJSON(statusCode, model.ErrorResponse{
		Status:  http.StatusText(statusCode),
		Message: message,
		Details: details,
	})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, http.StatusBadRequest, message, details...)
}

// respondUnauthorized sends a 401 Unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	respondWithError(c, http.StatusUnauthorized, message)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, message)
}

// respondUnprocessableEntity sends a 422 Unprocessable Entity response
func respondUnprocessableEntity(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, http.StatusUnprocessableEntity, message, details...)
}

// respondInternalServerError sends a 500 Internal Server Error response
func respondInternalServerError(c *gin.Context, message string) {
	respondWithError(c, http.StatusInternalServerError, message)
}

// respondOK sends a 200 OK response with data
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// respondPDF sends document bytes as an attachment or for inline preview
func respondPDF(c *gin.Context, filename string, data []byte, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+filename+`"`)
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}

// respondServiceError maps a service error onto an HTTP response
func respondServiceError(c *gin.Context, op string, err error) {
	var missing *domain.MissingInvoiceDataError
	var invalid *domain.InvalidNumericInputError

	switch {
	case errors.As(err, &missing):
		details := make([]model.ErrorDetail, 0, len(missing.Fields))
		for _, field := range missing.Fields {
			details = append(details, newErrorDetail(field, "is required"))
		}
		respondUnprocessableEntity(c, ErrMissingData, details...)
	case errors.As(err, &invalid):
		respondUnprocessableEntity(c, ErrInvalidAmount, newErrorDetail(invalid.Field, invalid.Reason))
	case errors.Is(err, repository.ErrInvoiceNotFound):
		respondNotFound(c, ErrInvoiceNotFound)
	case errors.Is(err, pdf.ErrUnknownTheme):
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("theme", "must be one of "+strings.Join(pdf.ThemeNames(), ", ")))
	case errors.Is(err, earnings.ErrInvalidPeriod):
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("period", "must be daily, weekly, monthly or yearly"))
	case errors.Is(err, earnings.ErrInvalidRange):
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("endDate", err.Error()))
	default:
		logError(c, op, err)
		respondInternalServerError(c, ErrInternalServer)
	}
}

func logError(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	slog.ErrorContext(c.Request.Context(), "request failed",
		"op", op,
		"error", err,
		"request_id", c.GetString("request_id"),
	)
}

// newErrorDetail creates a new error detail
func newErrorDetail(field, message string) model.ErrorDetail {
	return model.ErrorDetail{
		Field:   field,
		Message: message,
	}
}
