package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/service"
)

// EarningsHandler handles HTTP requests for earnings reports
type EarningsHandler struct {
	earnings service.EarningsService
}

// NewEarningsHandler creates a new earnings handler
func NewEarningsHandler(earnings service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earnings: earnings}
}

// RegisterRoutes registers the handler's routes behind auth
func (h *EarningsHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	group := router.Group("/v1/earnings", auth)
	group.GET("/summary", h.GetSummary)
	group.GET("/trends", h.GetTrends)
}

// GetSummary returns the earnings dashboard figures
// @Summary Get earnings summary
// @Description Earnings for today, this week, this month and this year compared with the previous period
// @Tags earnings
// @Produce json
// @Success 200 {object} domain.EarningsSummary "Earnings summary"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/earnings/summary [get]
func (h *EarningsHandler) GetSummary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, ErrNotAuthenticated)
		return
	}

	summary, err := h.earnings.Summary(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "earnings_summary", err)
		return
	}
	respondOK(c, summary)
}

// GetTrends returns earnings bucketed by period
// @Summary Get earnings trends
// @Tags earnings
// @Produce json
// @Param period query string false "Period type: daily, weekly, monthly, yearly (default: monthly)"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.EarningsTrend "Earnings trend"
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/earnings/trends [get]
func (h *EarningsHandler) GetTrends(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, ErrNotAuthenticated)
		return
	}

	from, err := parseDate(c.Query("startDate"))
	if err != nil {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("startDate", err.Error()))
		return
	}
	to, err := parseDate(c.Query("endDate"))
	if err != nil {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("endDate", err.Error()))
		return
	}

	trend, err := h.earnings.Trends(c.Request.Context(), userID, domain.Period(c.Query("period")), from, to)
	if err != nil {
		respondServiceError(c, "earnings_trends", err)
		return
	}
	respondOK(c, trend)
}
