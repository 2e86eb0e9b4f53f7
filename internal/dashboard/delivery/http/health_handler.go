package http

import (
	"net/http"

	"traderflow/internal/dashboard/dto"
	"traderflow/internal/dashboard/service"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports service health.
type HealthHandler struct {
	monitor *service.UpstreamMonitor
	views   *service.ViewRegistry
}

// NewHealthHandler creates a new HealthHandler. monitor may be nil when probing is disabled.
func NewHealthHandler(monitor *service.UpstreamMonitor, views *service.ViewRegistry) *HealthHandler {
	return &HealthHandler{monitor: monitor, views: views}
}

// RegisterRoutes registers the health route to the Echo group.
func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/healthz", h.Health)
}

// Health godoc
// @Summary Service health
// @Description Report the number of live views and the latest market API probe
// @Tags health
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c echo.Context) error {
	resp := dto.HealthResponse{Status: "ok", ActiveViews: h.views.Len()}
	if h.monitor != nil {
		status := h.monitor.Status()
		resp.Upstream = &status
		if !status.CheckedAt.IsZero() && !status.Reachable {
			resp.Status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, resp)
}
