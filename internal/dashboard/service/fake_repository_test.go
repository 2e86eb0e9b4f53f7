package service

import (
	"context"
	"net/http"
	"sync"

	"traderflow/internal/dashboard/dto"
	"traderflow/internal/dashboard/repository"
	"traderflow/internal/entity"

	"github.com/shopspring/decimal"
)

// fakeMarket is an in-memory MarketRepository. Hooks left nil return the
// default fixtures; gate, when set, blocks every fetch until it is closed.
type fakeMarket struct {
	mu    sync.Mutex
	calls map[string]int
	kinds []entity.IndicatorKind

	companies  func() ([]entity.Company, error)
	company    func(id string) (*entity.Company, error)
	history    func(id string) (*dto.PriceHistory, error)
	stockData  func(id string) (entity.Page[entity.StockDataPoint], error)
	prediction func(id string) (*entity.PricePrediction, error)
	sentiment  func(id string) (*entity.Sentiment, error)
	indicator  func(id string, kind entity.IndicatorKind) (*entity.IndicatorSeries, error)
	gate       func(ctx context.Context, resource, id string) error
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{calls: map[string]int{}}
}

func (f *fakeMarket) record(ctx context.Context, resource, id string) error {
	f.mu.Lock()
	f.calls[resource]++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		return gate(ctx, resource, id)
	}
	return nil
}

func (f *fakeMarket) Calls(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[resource]
}

func (f *fakeMarket) Kinds() []entity.IndicatorKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.IndicatorKind(nil), f.kinds...)
}

func (f *fakeMarket) GetCompanies(ctx context.Context) ([]entity.Company, error) {
	if err := f.record(ctx, "companies", ""); err != nil {
		return nil, err
	}
	if f.companies != nil {
		return f.companies()
	}
	return []entity.Company{fixtureCompany("ALK")}, nil
}

func (f *fakeMarket) GetCompany(ctx context.Context, id string) (*entity.Company, error) {
	if err := f.record(ctx, "company", id); err != nil {
		return nil, err
	}
	if f.company != nil {
		return f.company(id)
	}
	c := fixtureCompany(id)
	return &c, nil
}

func (f *fakeMarket) GetPriceHistory(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	if err := f.record(ctx, "history", param.CompanyID); err != nil {
		return nil, err
	}
	if f.history != nil {
		return f.history(param.CompanyID)
	}
	return &dto.PriceHistory{Page: entity.PageOf(fixtureHistory())}, nil
}

func (f *fakeMarket) GetStockData(ctx context.Context, id string) (entity.Page[entity.StockDataPoint], error) {
	if err := f.record(ctx, "stock_data", id); err != nil {
		return entity.Page[entity.StockDataPoint]{}, err
	}
	if f.stockData != nil {
		return f.stockData(id)
	}
	return entity.PageOf(fixtureHistory()), nil
}

func (f *fakeMarket) GetPrediction(ctx context.Context, id string) (*entity.PricePrediction, error) {
	if err := f.record(ctx, "prediction", id); err != nil {
		return nil, err
	}
	if f.prediction != nil {
		return f.prediction(id)
	}
	return &entity.PricePrediction{Key: id, Prediction: decimal.RequireFromString("101.456")}, nil
}

func (f *fakeMarket) GetSentiment(ctx context.Context, id string) (*entity.Sentiment, error) {
	if err := f.record(ctx, "sentiment", id); err != nil {
		return nil, err
	}
	if f.sentiment != nil {
		return f.sentiment(id)
	}
	return &entity.Sentiment{Key: id, Label: entity.SentimentPositive, Score: decimal.RequireFromString("0.8")}, nil
}

func (f *fakeMarket) GetIndicator(ctx context.Context, id string, kind entity.IndicatorKind) (*entity.IndicatorSeries, error) {
	f.mu.Lock()
	f.kinds = append(f.kinds, kind)
	f.mu.Unlock()
	if err := f.record(ctx, "indicator", id); err != nil {
		return nil, err
	}
	if f.indicator != nil {
		return f.indicator(id, kind)
	}
	return &entity.IndicatorSeries{Kind: kind, Points: []entity.IndicatorPoint{
		{Date: entity.MustParseDate("2024-01-02"), Close: decimal.NewFromInt(100), Signal: entity.SignalBuy,
			Indicator: decimal.NullDecimal{Decimal: decimal.RequireFromString("55.5"), Valid: true}},
	}}, nil
}

func (f *fakeMarket) Ping(ctx context.Context) error {
	return f.record(ctx, "ping", "")
}

func fixtureCompany(id string) entity.Company {
	return entity.Company{
		ShortName: id,
		Name:      id + " AD",
		Price:     decimal.NullDecimal{Decimal: decimal.NewFromInt(100), Valid: true},
	}
}

func fixtureHistory() []entity.StockDataPoint {
	return []entity.StockDataPoint{
		{
			Date:         entity.MustParseDate("2024-01-02"),
			Price:        decimal.NewFromInt(100),
			Max:          decimal.NewFromInt(105),
			Min:          decimal.NewFromInt(95),
			AveragePrice: decimal.NewFromInt(100),
			PriceChange:  decimal.Zero,
			Volume:       1200,
			BestTurnover: decimal.NewFromInt(1234567),
		},
		{
			Date:         entity.MustParseDate("2024-01-01"),
			Price:        decimal.NewFromInt(99),
			Max:          decimal.NewFromInt(101),
			Min:          decimal.NewFromInt(98),
			AveragePrice: decimal.NewFromInt(99),
			PriceChange:  decimal.RequireFromString("-1.5"),
			Volume:       800,
			BestTurnover: decimal.NewFromInt(79200),
		},
	}
}

func notFound(label string) error {
	return repository.NewAPIError(http.StatusNotFound, "Not Found", label)
}

var _ repository.MarketRepository = (*fakeMarket)(nil)
