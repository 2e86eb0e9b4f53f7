package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"traderflow/internal/dashboard/service"
	"traderflow/internal/entity"
	"traderflow/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CompanyHandler serves the company detail screen. Each session drives one
// CompanyView per company; a request without interaction parameters mounts it.
type CompanyHandler struct {
	views           *service.ViewRegistry
	renderBudget    time.Duration
	refreshInterval int
	logger          *logger.Logger
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(views *service.ViewRegistry, renderBudget time.Duration, refreshInterval int, logger *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		views:           views,
		renderBudget:    renderBudget,
		refreshInterval: refreshInterval,
		logger:          logger,
	}
}

// RegisterRoutes registers the company page to the Echo group.
func (h *CompanyHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/company/:id", h.ShowCompany)
}

// RegisterAPIRoutes registers the company view API to the Echo group.
func (h *CompanyHandler) RegisterAPIRoutes(g *echo.Group) {
	g.GET("/:id/view", h.GetCompanyView)
}

type companyContent struct {
	State           service.CompanyViewState
	BaseURL         string
	HistoryTabURL   string
	IndicatorTabURL string
}

// ShowCompany renders the company detail screen. Slots still pending after
// the render budget show placeholders and the page refreshes itself.
func (h *CompanyHandler) ShowCompany(c echo.Context) error {
	state, err := h.present(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	base := companyPath(state.CompanyID)
	content := companyContent{
		State:           state,
		BaseURL:         base,
		HistoryTabURL:   interactionURL(state, service.TabHistory),
		IndicatorTabURL: interactionURL(state, service.TabIndicators),
	}
	title := state.CompanyID
	if state.Company.Loaded() {
		title = state.Company.Data.DisplayName()
	}

	page := newPage(c, title, content)
	page.ReturnTo = interactionURL(state, state.Tab)
	if state.Loading {
		page.RefreshURL = page.ReturnTo
		page.RefreshInterval = h.refreshInterval
	}
	return c.Render(http.StatusOK, "company", page)
}

// GetCompanyView godoc
// @Summary Get a company view
// @Description Drive the session's company view and return its state. Without tab, indicator, start or end the view is mounted.
// @Tags companies
// @Produce  json
// @Param   id         path   string true  "Company short name"
// @Param   tab        query  string false "history or indicators"
// @Param   indicator  query  string false "Indicator kind"
// @Param   start      query  string false "Start date (YYYY-MM-DD)"
// @Param   end        query  string false "End date (YYYY-MM-DD)"
// @Success 200 {object} service.CompanyViewState
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/companies/{id}/view [get]
func (h *CompanyHandler) GetCompanyView(c echo.Context) error {
	state, err := h.present(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, state)
}

func (h *CompanyHandler) present(c echo.Context) (service.CompanyViewState, error) {
	id := strings.ToUpper(strings.TrimSpace(c.Param("id")))
	if id == "" {
		return service.CompanyViewState{}, errInvalidCompanyID
	}
	in, interactive, err := parseInteraction(c)
	if err != nil {
		return service.CompanyViewState{}, err
	}

	ctx := c.Request().Context()
	view := h.views.Get(sessionID(c), id)
	if !interactive || view.CompanyID() != id {
		view.Mount(id)
	}
	if interactive && view.Apply(in) {
		h.logger.DebugContext(ctx, "Interaction started a fetch", logger.StringField("company_id", id))
	}

	waitCtx, cancel := context.WithTimeout(ctx, h.renderBudget)
	defer cancel()
	if err := view.Wait(waitCtx); err != nil {
		h.logger.DebugContext(ctx, "Render budget expired with pending fetches", logger.StringField("company_id", id))
	}
	return view.Snapshot(), nil
}

var errInvalidCompanyID = errors.New("invalid company ID")

// parseInteraction reads tab, indicator, start and end. The request is an
// interaction when any of them is present.
func parseInteraction(c echo.Context) (service.Interaction, bool, error) {
	params := c.QueryParams()
	var in service.Interaction
	interactive := false

	if params.Has("tab") {
		tab := service.ParseTab(params.Get("tab"))
		in.Tab = &tab
		interactive = true
	}
	if params.Has("indicator") {
		kind, err := entity.ParseIndicatorKind(params.Get("indicator"))
		if err != nil {
			return in, false, err
		}
		in.Indicator = &kind
		interactive = true
	}
	if params.Has("start") || params.Has("end") {
		r, err := entity.ParseDateRange(params.Get("start"), params.Get("end"))
		if err != nil {
			return in, false, err
		}
		in.Range = &r
		interactive = true
	}
	return in, interactive, nil
}

func companyPath(id string) string {
	return "/company/" + url.PathEscape(id)
}

// interactionURL addresses the current view state with tab selected. It
// always carries a tab so following it never remounts the view.
func interactionURL(state service.CompanyViewState, tab service.Tab) string {
	q := url.Values{}
	q.Set("tab", string(tab))
	q.Set("indicator", string(state.IndicatorKind))
	if state.DateRange.Start != nil {
		q.Set("start", state.DateRange.Start.String())
	}
	if state.DateRange.End != nil {
		q.Set("end", state.DateRange.End.String())
	}
	return companyPath(state.CompanyID) + "?" + q.Encode()
}
