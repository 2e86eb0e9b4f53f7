package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"traderflow/internal/dashboard/config"
	"traderflow/internal/dashboard/repository"
	"traderflow/internal/dashboard/service"
	"traderflow/pkg/common"
	"traderflow/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companiesJSON = `[
		{"short_name":"ALK","name":"Alkaloid AD","price":100,"price_change":0},
		{"short_name":"KMB","name":"Komercijalna banka","price":null}
	]`

const companyJSON = `{"short_name":"ALK","name":"Alkaloid AD","price":100,"price_change":0}`

const historyJSON = `{"stock_data":{"content":[
		{"date":"2024-01-02","price":100,"max":105,"min":95,"average_price":100,"price_change":0,"volume":1200.0,"best_turnover":1234567,"total_turnover":1234567},
		{"date":"2024-01-01","price":99,"max":101,"min":98,"average_price":99,"price_change":-1.5,"volume":800.0,"best_turnover":79200,"total_turnover":79200}
	],"totalPages":1,"totalElements":2,"number":0,"last":true,"size":10}}`

const predictionJSON = `{"key":"ALK","prediction":101.456}`

const sentimentJSON = `{"key":"ALK","sentiment":"positive","score":0.8}`

const indicatorJSON = `[
		{"date":"2024-01-02","close":100,"max":105,"min":95,"volume":1200.0,"indicator":61.25,"signal":"BUY"},
		{"date":"2024-01-01","close":99,"max":101,"min":98,"volume":800.0,"indicator":null,"signal":"HOLD"}
	]`

type upstream struct {
	overrides map[string]http.HandlerFunc
	hits      map[string]*int32
	delay     map[string]chan struct{}
}

func newUpstream() *upstream {
	return &upstream{overrides: map[string]http.HandlerFunc{}, hits: map[string]*int32{}, delay: map[string]chan struct{}{}}
}

func (u *upstream) count(path string) int {
	if n, ok := u.hits[path]; ok {
		return int(atomic.LoadInt32(n))
	}
	return 0
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	if n, ok := u.hits[path]; ok {
		atomic.AddInt32(n, 1)
	}
	if ch, ok := u.delay[path]; ok {
		<-ch
	}
	if h, ok := u.overrides[path]; ok {
		h(w, r)
		return
	}

	body := ""
	switch {
	case path == "/companies":
		body = companiesJSON
	case path == "/companies/ALK":
		body = companyJSON
	case path == "/companies/ALK/price-history":
		body = historyJSON
	case path == "/companies/ALK/predict":
		body = predictionJSON
	case path == "/companies/ALK/news/sentiment":
		body = sentimentJSON
	case strings.HasPrefix(path, "/companies/ALK/indicators/"):
		body = indicatorJSON
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func fail(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestServer(t *testing.T, up *upstream, renderBudget time.Duration) *echo.Echo {
	t.Helper()
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	log := logger.NewNop()
	cfg := &config.Config{MarketAPI: config.MarketAPI{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second, HistoryPageSize: 10}}
	marketRepo := repository.NewMarketAPIRepository(cfg, log)
	preferenceSvc := service.NewPreferenceService(repository.NewMemoryPreferenceRepository(0), log)
	views := service.NewViewRegistry(time.Minute, func() *service.CompanyView {
		return service.NewCompanyView(context.Background(), marketRepo, log)
	}, log)
	t.Cleanup(views.Close)

	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	RegisterMiddleware(e, preferenceSvc, log)

	pages := e.Group("")
	companies := e.Group("/api/v1/companies")
	home := NewHomeHandler(service.NewHomeService(marketRepo, log), log)
	home.RegisterRoutes(pages)
	home.RegisterAPIRoutes(companies)
	company := NewCompanyHandler(views, renderBudget, 1, log)
	company.RegisterRoutes(pages)
	company.RegisterAPIRoutes(companies)
	NewPreferenceHandler(preferenceSvc, log).RegisterRoutes(e.Group("/preferences"))
	NewHealthHandler(nil, views).RegisterRoutes(pages)
	return e
}

type client struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == common.SessionCookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func TestHomePage(t *testing.T) {
	c := &client{t: t, e: newTestServer(t, newUpstream(), time.Second)}

	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "TraderFlow")
	assert.Contains(t, body, "Elevating your trading experience.")
	assert.Contains(t, body, "Alkaloid AD")
	assert.Contains(t, body, "Stock Price: 100.00 MKD.")
	assert.Contains(t, body, `href="/company/ALK"`)
	assert.NotContains(t, body, "Komercijalna banka", "companies without a price are hidden")
	require.NotNil(t, c.cookie, "a session cookie is issued")
}

func TestHomePageError(t *testing.T) {
	up := newUpstream()
	up.overrides["/companies"] = fail(http.StatusInternalServerError, `{"error":"database offline"}`)
	c := &client{t: t, e: newTestServer(t, up, time.Second)}

	body := c.get("/").Body.String()
	assert.Contains(t, body, "Error fetching companies: database offline")
	assert.NotContains(t, body, "Stock Price:")

	rec := c.get("/api/v1/companies")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"database offline"}`, rec.Body.String())
}

func TestCompanyPage(t *testing.T) {
	c := &client{t: t, e: newTestServer(t, newUpstream(), 2*time.Second)}

	rec := c.get("/company/alk")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Details for company: Alkaloid AD")
	assert.Contains(t, body, "Price: 100.00 mkd.")
	assert.Contains(t, body, `<span id="prediction">101.46 mkd.</span>`)
	assert.Contains(t, body, `class="text-green-500">positive</span>`)
	for _, want := range []string{"<td>100.00</td>", "<td>105.00</td>", "<td>95.00</td>", "<td>0.00%</td>", "<td>1200</td>", "<td>1,234,567</td>", "<td>-1.50%</td>"} {
		assert.Contains(t, body, want)
	}
	assert.Contains(t, body, `<svg id="history-chart"`)
	assert.Equal(t, 3, strings.Count(body, "<polyline"))
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestCompanyPageDateRange(t *testing.T) {
	up := newUpstream()
	up.hits["/companies/ALK/price-history"] = new(int32)
	c := &client{t: t, e: newTestServer(t, up, 2*time.Second)}
	c.get("/company/ALK")

	body := c.get("/company/ALK?start=2024-01-02&end=2024-01-02").Body.String()
	assert.Contains(t, body, "<td>2024-01-02</td>")
	assert.NotContains(t, body, "<td>2024-01-01</td>")

	body = c.get("/company/ALK?start=2030-01-01&end=2030-12-31").Body.String()
	assert.Contains(t, body, "No stock history available")
	assert.NotContains(t, body, "<svg")

	assert.Equal(t, 1, up.count("/companies/ALK/price-history"), "narrowing the range does not refetch")
}

func TestCompanyPageInvalidInteraction(t *testing.T) {
	c := &client{t: t, e: newTestServer(t, newUpstream(), time.Second)}

	assert.Equal(t, http.StatusBadRequest, c.get("/company/ALK?indicator=macd").Code)
	assert.Equal(t, http.StatusBadRequest, c.get("/company/ALK?start=2024-02-01&end=2024-01-01").Code)
}

func TestCompanyPageFailure(t *testing.T) {
	up := newUpstream()
	up.overrides["/companies/ALK"] = fail(http.StatusNotFound, `{"message":"Company ALK not found"}`)
	c := &client{t: t, e: newTestServer(t, up, 2*time.Second)}

	body := c.get("/company/ALK").Body.String()
	assert.Contains(t, body, "Failed to fetch company details: Company ALK not found")
	assert.NotContains(t, body, "Predicted Price")
	assert.NotContains(t, body, "history-table")
}

func TestCompanyPagePredictionFailure(t *testing.T) {
	up := newUpstream()
	up.overrides["/companies/ALK/predict"] = fail(http.StatusNotFound, `{"message":"No prediction"}`)
	c := &client{t: t, e: newTestServer(t, up, 2*time.Second)}

	body := c.get("/company/ALK").Body.String()
	assert.Contains(t, body, `<span id="prediction">N/A</span>`)
	assert.Contains(t, body, "Details for company: Alkaloid AD")
	assert.Contains(t, body, `id="history-table"`)
}

func TestCompanyPageIndicators(t *testing.T) {
	up := newUpstream()
	up.hits["/companies/ALK/indicators/rsi"] = new(int32)
	up.hits["/companies/ALK/indicators/ema"] = new(int32)
	c := &client{t: t, e: newTestServer(t, up, 2*time.Second)}
	c.get("/company/ALK")

	body := c.get("/company/ALK?tab=indicators").Body.String()
	assert.Contains(t, body, `id="indicator-table"`)
	assert.Contains(t, body, "<td>61.25</td>")
	assert.Contains(t, body, `<td class="text-green-500">BUY</td>`)
	assert.Contains(t, body, `<td class="text-orange-500">HOLD</td>`)
	assert.Contains(t, body, "<td>N/A</td>")
	assert.Equal(t, 1, up.count("/companies/ALK/indicators/rsi"))

	body = c.get("/company/ALK?tab=indicators&indicator=ema").Body.String()
	assert.Contains(t, body, `<option value="ema" selected>`)
	assert.Equal(t, 1, up.count("/companies/ALK/indicators/ema"))
	assert.Equal(t, 1, up.count("/companies/ALK/indicators/rsi"))
}

func TestCompanyPageIndicatorError(t *testing.T) {
	up := newUpstream()
	up.overrides["/companies/ALK/indicators/rsi"] = fail(http.StatusInternalServerError, `{"error":"indicator service down"}`)
	c := &client{t: t, e: newTestServer(t, up, 2*time.Second)}

	body := c.get("/company/ALK?tab=indicators").Body.String()
	assert.Contains(t, body, "Error fetching indicator data")
	assert.Contains(t, body, "indicator service down")
	assert.Contains(t, body, "Details for company: Alkaloid AD")
}

func TestCompanyPageRefreshesWhilePending(t *testing.T) {
	up := newUpstream()
	release := make(chan struct{})
	up.delay["/companies/ALK/news/sentiment"] = release
	c := &client{t: t, e: newTestServer(t, up, 50*time.Millisecond)}

	body := c.get("/company/ALK").Body.String()
	close(release)
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "url=/company/ALK?indicator=rsi&amp;tab=history")
	assert.Contains(t, body, `class="">Loading...</span>`)
	assert.Contains(t, body, "101.46 mkd.")
}

func TestCompanyViewAPI(t *testing.T) {
	c := &client{t: t, e: newTestServer(t, newUpstream(), 2*time.Second)}

	rec := c.get("/api/v1/companies/ALK/view")
	require.Equal(t, http.StatusOK, rec.Code)

	var state struct {
		CompanyID string            `json:"company_id"`
		Loading   bool              `json:"loading"`
		Statuses  map[string]string `json:"statuses"`
		Company   struct {
			Status string `json:"status"`
			Data   struct {
				ShortName string `json:"short_name"`
			} `json:"data"`
		} `json:"company"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "ALK", state.CompanyID)
	assert.False(t, state.Loading)
	assert.Equal(t, "success", state.Statuses["prediction"])
	assert.Equal(t, "idle", state.Statuses["indicator"])
	assert.Equal(t, "ALK", state.Company.Data.ShortName)
}

func TestDarkModePersists(t *testing.T) {
	c := &client{t: t, e: newTestServer(t, newUpstream(), time.Second)}

	body := c.get("/").Body.String()
	assert.Contains(t, body, `<html lang="en" class="">`)

	form := url.Values{"return_to": {"/company/ALK?tab=history"}}
	req := httptest.NewRequest(http.MethodPost, "/preferences/dark-mode/toggle", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := c.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/company/ALK?tab=history", rec.Header().Get(echo.HeaderLocation))

	body = c.get("/").Body.String()
	assert.Contains(t, body, `<html lang="en" class="dark">`)

	req = httptest.NewRequest(http.MethodPost, "/preferences/dark-mode/toggle", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec = c.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dark_mode":false}`, rec.Body.String())

	other := &client{t: t, e: c.e}
	assert.Contains(t, other.get("/").Body.String(), `<html lang="en" class="">`, "display mode is per session")
}

func TestSafeReturnTo(t *testing.T) {
	tests := map[string]string{
		"/company/ALK":        "/company/ALK",
		"":                    "/",
		"https://example.com": "/",
		"//example.com":       "/",
		`/\example.com`:       "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeReturnTo(in), in)
	}
}

func TestHealth(t *testing.T) {
	c := &client{t: t, e: newTestServer(t, newUpstream(), time.Second)}
	c.get("/company/ALK")

	rec := c.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","active_views":1}`, rec.Body.String())
}

func TestCompanyViewsAreScopedToTheirCompany(t *testing.T) {
	up := newUpstream()
	var companyHits int32
	up.hits["/companies/ALK"] = &companyHits
	release := make(chan struct{})
	up.delay["/companies/ALK"] = release
	e := newTestServer(t, up, 5*time.Second)

	c := &client{t: t, e: e}
	c.get("/")
	require.NotNil(t, c.cookie)
	cookie := c.cookie

	type viewBody struct {
		CompanyID string `json:"company_id"`
		Loading   bool   `json:"loading"`
		Company   struct {
			Status string `json:"status"`
		} `json:"company"`
	}
	viewOf := func(target string) (*httptest.ResponseRecorder, viewBody) {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		var state viewBody
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		return rec, state
	}

	alk := make(chan viewBody, 1)
	go func() {
		_, state := viewOf("/api/v1/companies/ALK/view")
		alk <- state
	}()
	require.Eventually(t, func() bool { return up.count("/companies/ALK") == 1 }, 2*time.Second, 10*time.Millisecond)

	rec, kmb := viewOf("/api/v1/companies/KMB/view")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "KMB", kmb.CompanyID)
	close(release)

	select {
	case state := <-alk:
		assert.Equal(t, "ALK", state.CompanyID)
		assert.False(t, state.Loading)
		assert.Equal(t, "success", state.Company.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("ALK view did not respond")
	}

	rec, state := viewOf("/api/v1/companies/ALK/view?tab=history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALK", state.CompanyID)
	assert.Equal(t, 1, up.count("/companies/ALK"), "an interaction on the loaded view does not refetch")
}
