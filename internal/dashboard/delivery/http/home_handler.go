package http

import (
	"net/http"

	"traderflow/internal/dashboard/service"
	"traderflow/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HomeHandler serves the company list screen.
type HomeHandler struct {
	homeService service.HomeService
	logger      *logger.Logger
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(homeService service.HomeService, logger *logger.Logger) *HomeHandler {
	return &HomeHandler{homeService: homeService, logger: logger}
}

// RegisterRoutes registers the home page to the Echo group.
func (h *HomeHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/", h.ShowHome)
}

// RegisterAPIRoutes registers the company list API to the Echo group.
func (h *HomeHandler) RegisterAPIRoutes(g *echo.Group) {
	g.GET("", h.ListCompanies)
}

// ShowHome renders the company list. A failed fetch replaces the list with an error message.
func (h *HomeHandler) ShowHome(c echo.Context) error {
	state := h.homeService.Load(c.Request().Context())
	return c.Render(http.StatusOK, "home", newPage(c, "Companies", state))
}

// ListCompanies godoc
// @Summary List companies
// @Description List the companies that currently have a stock price
// @Tags companies
// @Produce  json
// @Success 200 {array} entity.Company
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/companies [get]
func (h *HomeHandler) ListCompanies(c echo.Context) error {
	state := h.homeService.Load(c.Request().Context())
	if state.Error != nil {
		return c.JSON(state.Error.StatusCode, echo.Map{"error": state.Error.Message})
	}
	return c.JSON(http.StatusOK, state.Companies)
}
