package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-composer-service/internal/model"
)

// Pinger is a dependency whose reachability is part of the health check
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	checks map[string]Pinger
	now    func() time.Time
}

// NewHealthHandler creates a health handler. Nil checks are skipped.
func NewHealthHandler(checks map[string]Pinger, now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{checks: active, now: now}
}

// RegisterRoutes registers the handler's routes
func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
}

// Health reports whether the service and its dependencies are reachable
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse "Service is healthy"
// @Failure 503 {object} model.ErrorResponse "A dependency is unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var details []model.ErrorDetail
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			details = append(details, newErrorDetail(name, err.Error()))
		}
	}
	if len(details) > 0 {
		respondWithError(c, http.StatusServiceUnavailable, "Dependency unavailable", details...)
		return
	}

	respondOK(c, model.HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}
