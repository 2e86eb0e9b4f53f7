package http

import (
	"net/http"
	"strings"

	"traderflow/internal/dashboard/dto"
	"traderflow/internal/dashboard/service"
	"traderflow/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PreferenceHandler handles display preference changes.
type PreferenceHandler struct {
	preferenceService service.PreferenceService
	logger            *logger.Logger
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(preferenceService service.PreferenceService, logger *logger.Logger) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService, logger: logger}
}

// RegisterRoutes registers the preference routes to the Echo group.
func (h *PreferenceHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/dark-mode/toggle", h.ToggleDarkMode)
}

// ToggleDarkMode godoc
// @Summary Toggle dark mode
// @Description Flip and persist the session's display mode. Browsers are redirected back to return_to.
// @Tags preferences
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param   return_to  formData  string false "Page to return to"
// @Success 200 {object} dto.PreferenceResponse
// @Success 303
// @Failure 500 {object} dto.ErrorResponse
// @Router /preferences/dark-mode/toggle [post]
func (h *PreferenceHandler) ToggleDarkMode(c echo.Context) error {
	ctx := c.Request().Context()
	dark, err := h.preferenceService.ToggleDarkMode(ctx, sessionID(c))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to toggle dark mode", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save display mode"})
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return c.JSON(http.StatusOK, dto.PreferenceResponse{DarkMode: dark})
	}
	return c.Redirect(http.StatusSeeOther, safeReturnTo(c.FormValue("return_to")))
}

// safeReturnTo only allows local absolute paths.
func safeReturnTo(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "/"
	}
	return target
}
