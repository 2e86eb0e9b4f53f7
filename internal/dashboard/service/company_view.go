package service

import (
	"context"
	"strings"
	"sync"

	"traderflow/internal/dashboard/chart"
	"traderflow/internal/dashboard/dto"
	"traderflow/internal/dashboard/loader"
	"traderflow/internal/dashboard/repository"
	"traderflow/internal/entity"
	"traderflow/pkg/logger"
)

// Tab selects which table the company detail screen shows.
type Tab string

const (
	TabHistory    Tab = "history"
	TabIndicators Tab = "indicators"
)

// ParseTab maps s to a Tab, defaulting to TabHistory.
func ParseTab(s string) Tab {
	if Tab(strings.ToLower(strings.TrimSpace(s))) == TabIndicators {
		return TabIndicators
	}
	return TabHistory
}

const (
	resourceCompany    = "company"
	resourceHistory    = "history"
	resourcePrediction = "prediction"
	resourceSentiment  = "sentiment"
	resourceIndicator  = "indicator"
)

// Interaction is a user action on an already mounted company view.
type Interaction struct {
	Tab       *Tab
	Indicator *entity.IndicatorKind
	Range     *entity.DateRange
}

// CompanyView is the view controller of the company detail screen. Mount
// starts the company, history, prediction and sentiment fetches concurrently;
// each settles into its own slot independently of the others. The indicator
// slot is fetched lazily for the selected kind.
type CompanyView struct {
	repo   repository.MarketRepository
	log    *logger.Logger
	parent context.Context
	signal *loader.Signal

	mu              sync.Mutex
	companyID       string
	ctx             context.Context
	cancel          context.CancelFunc
	indicatorCancel context.CancelFunc
	indicatorKind   entity.IndicatorKind
	tab             Tab
	dateRange       entity.DateRange

	company    *loader.Resource[entity.Company]
	history    *loader.Resource[entity.Page[entity.StockDataPoint]]
	prediction *loader.Resource[entity.PricePrediction]
	sentiment  *loader.Resource[entity.Sentiment]
	indicator  *loader.Resource[entity.IndicatorSeries]
}

// NewCompanyView creates an unmounted view. Fetches run under parent and stop when it is canceled.
func NewCompanyView(parent context.Context, repo repository.MarketRepository, log *logger.Logger) *CompanyView {
	signal := loader.NewSignal()
	return &CompanyView{
		repo:          repo,
		log:           log,
		parent:        parent,
		signal:        signal,
		indicatorKind: entity.DefaultIndicator,
		tab:           TabHistory,
		company:       loader.New[entity.Company](resourceCompany, signal),
		history:       loader.New[entity.Page[entity.StockDataPoint]](resourceHistory, signal),
		prediction:    loader.New[entity.PricePrediction](resourcePrediction, signal),
		sentiment:     loader.New[entity.Sentiment](resourceSentiment, signal),
		indicator:     loader.New[entity.IndicatorSeries](resourceIndicator, signal),
	}
}

// CompanyID returns the identifier of the mounted company, or "" before the first Mount.
func (v *CompanyView) CompanyID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.companyID
}

// Mount shows companyID: in-flight work for the previous company is canceled
// and its late responses are discarded, the tab, indicator kind and date range
// return to their defaults, and the four detail fetches start concurrently.
func (v *CompanyView) Mount(companyID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}
	v.ctx, v.cancel = context.WithCancel(v.parent)
	v.indicatorCancel = nil
	v.companyID = companyID
	v.tab = TabHistory
	v.indicatorKind = entity.DefaultIndicator
	v.dateRange = entity.DateRange{}
	v.indicator.Reset()

	ctx := logger.WithRequestID(v.ctx, "view:"+companyID)
	v.log.DebugContext(ctx, "Mounting company view", logger.StringField("company_id", companyID))

	startFetch(ctx, v, v.company, func(ctx context.Context) (*entity.Company, error) {
		return v.repo.GetCompany(ctx, companyID)
	})
	startFetch(ctx, v, v.history, func(ctx context.Context) (*entity.Page[entity.StockDataPoint], error) {
		return v.fetchHistory(ctx, companyID)
	})
	startFetch(ctx, v, v.prediction, func(ctx context.Context) (*entity.PricePrediction, error) {
		return v.repo.GetPrediction(ctx, companyID)
	})
	startFetch(ctx, v, v.sentiment, func(ctx context.Context) (*entity.Sentiment, error) {
		return v.repo.GetSentiment(ctx, companyID)
	})
}

// fetchHistory loads the price history, falling back to the plain stock-data
// listing on deployments that do not serve price-history.
func (v *CompanyView) fetchHistory(ctx context.Context, companyID string) (*entity.Page[entity.StockDataPoint], error) {
	h, err := v.repo.GetPriceHistory(ctx, dto.GetPriceHistoryParam{CompanyID: companyID})
	if err == nil {
		return &h.Page, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}
	v.log.DebugContext(ctx, "Price history not served, using stock data", logger.StringField("company_id", companyID))
	page, fallbackErr := v.repo.GetStockData(ctx, companyID)
	if fallbackErr != nil {
		return nil, err
	}
	return &page, nil
}

// SelectIndicator records kind as the selected indicator. While the indicator
// tab is shown, a change of kind (or a never-loaded slot) starts exactly one
// fetch; otherwise the fetch is deferred until the tab is opened. It reports
// whether a fetch was started.
func (v *CompanyView) SelectIndicator(kind entity.IndicatorKind) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectIndicatorLocked(kind)
}

// SelectTab switches the visible table. Opening the indicator tab with an
// idle indicator slot starts its first fetch. It reports whether a fetch was started.
func (v *CompanyView) SelectTab(tab Tab) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectTabLocked(tab)
}

// SetDateRange narrows the displayed history. No data is refetched.
func (v *CompanyView) SetDateRange(r entity.DateRange) {
	v.mu.Lock()
	v.dateRange = r
	v.mu.Unlock()
}

// Apply performs an interaction atomically: indicator kind first, then tab,
// then date range, so switching to the indicator tab with a new kind costs one fetch.
func (v *CompanyView) Apply(in Interaction) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	fetched := false
	if in.Indicator != nil {
		fetched = v.selectIndicatorLocked(*in.Indicator) || fetched
	}
	if in.Tab != nil {
		fetched = v.selectTabLocked(*in.Tab) || fetched
	}
	if in.Range != nil {
		v.dateRange = *in.Range
	}
	return fetched
}

func (v *CompanyView) selectIndicatorLocked(kind entity.IndicatorKind) bool {
	if v.companyID == "" {
		return false
	}
	changed := kind != v.indicatorKind
	v.indicatorKind = kind

	if v.tab != TabIndicators {
		if changed {
			v.resetIndicatorLocked()
		}
		return false
	}
	if !changed && v.indicator.Status() != loader.StatusIdle {
		return false
	}
	v.startIndicatorLocked()
	return true
}

func (v *CompanyView) selectTabLocked(tab Tab) bool {
	v.tab = tab
	if v.companyID == "" || tab != TabIndicators {
		return false
	}
	if v.indicator.Status() != loader.StatusIdle {
		return false
	}
	v.startIndicatorLocked()
	return true
}

func (v *CompanyView) resetIndicatorLocked() {
	if v.indicatorCancel != nil {
		v.indicatorCancel()
		v.indicatorCancel = nil
	}
	v.indicator.Reset()
}

func (v *CompanyView) startIndicatorLocked() {
	if v.indicatorCancel != nil {
		v.indicatorCancel()
	}
	var ctx context.Context
	ctx, v.indicatorCancel = context.WithCancel(v.ctx)
	ctx = logger.WithRequestID(ctx, "view:"+v.companyID)

	companyID, kind := v.companyID, v.indicatorKind
	startFetch(ctx, v, v.indicator, func(ctx context.Context) (*entity.IndicatorSeries, error) {
		return v.repo.GetIndicator(ctx, companyID, kind)
	})
}

// Wait blocks until no slot is pending or ctx is done.
func (v *CompanyView) Wait(ctx context.Context) error {
	return loader.WaitIdle(ctx, v.signal, v.resources()...)
}

// Loading reports whether any fetch is pending.
func (v *CompanyView) Loading() bool {
	return loader.Loading(v.resources()...)
}

// Close cancels all in-flight fetches.
func (v *CompanyView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Snapshot captures the current state for rendering.
func (v *CompanyView) Snapshot() CompanyViewState {
	v.mu.Lock()
	state := CompanyViewState{
		CompanyID:     v.companyID,
		Tab:           v.tab,
		IndicatorKind: v.indicatorKind,
		DateRange:     v.dateRange,
	}
	v.mu.Unlock()

	state.Company = v.company.Snapshot()
	state.History = v.history.Snapshot()
	state.Prediction = v.prediction.Snapshot()
	state.Sentiment = v.sentiment.Snapshot()
	state.Indicator = v.indicator.Snapshot()
	state.Statuses = map[string]loader.Status{
		resourceCompany:    state.Company.Status,
		resourceHistory:    state.History.Status,
		resourcePrediction: state.Prediction.Status,
		resourceSentiment:  state.Sentiment.Status,
		resourceIndicator:  state.Indicator.Status,
	}
	for _, s := range state.Statuses {
		if s == loader.StatusPending {
			state.Loading = true
		}
	}

	if state.History.Loaded() {
		state.FilteredHistory = chart.FilterHistory(state.History.Data.Content, state.DateRange)
		state.Chart = chart.Build(state.FilteredHistory)
	}
	return state
}

func (v *CompanyView) resources() []loader.Statuser {
	return []loader.Statuser{v.company, v.history, v.prediction, v.sentiment, v.indicator}
}

// startFetch runs fetch into res and logs its outcome.
func startFetch[T any](ctx context.Context, v *CompanyView, res *loader.Resource[T], fetch loader.Fetcher[T]) {
	res.Start(ctx, fetch, func(kept bool, err error) {
		switch {
		case !kept:
			v.log.DebugContext(ctx, "Discarded stale response", logger.StringField("resource", res.Name()))
		case err != nil:
			v.log.WarnContext(ctx, "Fetch failed", logger.StringField("resource", res.Name()), logger.ErrorField(err))
		default:
			v.log.DebugContext(ctx, "Fetch completed", logger.StringField("resource", res.Name()))
		}
	})
}
