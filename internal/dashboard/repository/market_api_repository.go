package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"traderflow/internal/dashboard/config"
	"traderflow/internal/dashboard/dto"
	"traderflow/internal/entity"
	"traderflow/pkg/common"
	"traderflow/pkg/logger"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	pathCompanies     = "/companies"
	pathCompany       = "/companies/{id}"
	pathPriceHistory  = "/companies/{id}/price-history"
	pathStockData     = "/companies/{id}/stock-data"
	pathPrediction    = "/companies/{id}/predict"
	pathSentiment     = "/companies/{id}/news/sentiment"
	pathIndicator     = "/companies/{id}/indicators/{kind}"
	maxErrorBodyBytes = 512
)

// MarketRepository reads company data from the external market API.
type MarketRepository interface {
	GetCompanies(ctx context.Context) ([]entity.Company, error)
	GetCompany(ctx context.Context, companyID string) (*entity.Company, error)
	GetPriceHistory(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error)
	GetStockData(ctx context.Context, companyID string) (entity.Page[entity.StockDataPoint], error)
	GetPrediction(ctx context.Context, companyID string) (*entity.PricePrediction, error)
	GetSentiment(ctx context.Context, companyID string) (*entity.Sentiment, error)
	GetIndicator(ctx context.Context, companyID string, kind entity.IndicatorKind) (*entity.IndicatorSeries, error)
	Ping(ctx context.Context) error
}

type marketAPIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *resty.Client
	requestLimiter *rate.Limiter
}

// NewMarketAPIRepository creates a MarketRepository backed by resty.
func NewMarketAPIRepository(cfg *config.Config, log *logger.Logger) MarketRepository {
	limit := rate.Inf
	if cfg.MarketAPI.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.MarketAPI.MaxRequestPerMinute))
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.MarketAPI.BaseURL, "/"))
	client.SetTimeout(cfg.MarketAPI.Timeout)
	client.SetHeader("Accept", "application/json")

	return &marketAPIRepository{
		cfg:            cfg,
		log:            log,
		client:         client,
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

func (r *marketAPIRepository) GetCompanies(ctx context.Context) ([]entity.Company, error) {
	const label = "Failed to fetch companies"
	body, err := r.sendRequest(ctx, pathCompanies, nil, nil, label)
	if err != nil {
		return nil, err
	}

	var companies []entity.Company
	if err := json.Unmarshal(body, &companies); err != nil {
		return nil, r.parseError(ctx, pathCompanies, err, label)
	}
	return companies, nil
}

func (r *marketAPIRepository) GetCompany(ctx context.Context, companyID string) (*entity.Company, error) {
	const label = "Failed to fetch company details"
	body, err := r.sendRequest(ctx, pathCompany, map[string]string{"id": companyID}, nil, label)
	if err != nil {
		return nil, err
	}

	var company entity.Company
	if err := json.Unmarshal(body, &company); err != nil {
		return nil, r.parseError(ctx, pathCompany, err, label)
	}
	return &company, nil
}

func (r *marketAPIRepository) GetPriceHistory(ctx context.Context, param dto.GetPriceHistoryParam) (*dto.PriceHistory, error) {
	const label = "Failed to fetch price history"
	size := param.Size
	if size <= 0 {
		size = r.cfg.MarketAPI.HistoryPageSize
	}
	query := map[string]string{
		"page": strconv.Itoa(param.Page),
		"size": strconv.Itoa(size),
	}
	if param.Range.Start != nil {
		query["startDate"] = param.Range.Start.Format(common.DateLayout)
	}
	if param.Range.End != nil {
		query["endDate"] = param.Range.End.Format(common.DateLayout)
	}

	body, err := r.sendRequest(ctx, pathPriceHistory, map[string]string{"id": param.CompanyID}, query, label)
	if err != nil {
		return nil, err
	}

	history, err := decodePriceHistory(body)
	if err != nil {
		return nil, r.parseError(ctx, pathPriceHistory, err, label)
	}
	return history, nil
}

func (r *marketAPIRepository) GetStockData(ctx context.Context, companyID string) (entity.Page[entity.StockDataPoint], error) {
	const label = "Failed to fetch stock data"
	body, err := r.sendRequest(ctx, pathStockData, map[string]string{"id": companyID}, nil, label)
	if err != nil {
		return entity.Page[entity.StockDataPoint]{}, err
	}

	page, err := decodePage[entity.StockDataPoint](body)
	if err != nil {
		return entity.Page[entity.StockDataPoint]{}, r.parseError(ctx, pathStockData, err, label)
	}
	return page, nil
}

func (r *marketAPIRepository) GetPrediction(ctx context.Context, companyID string) (*entity.PricePrediction, error) {
	const label = "No price found"
	body, err := r.sendRequest(ctx, pathPrediction, map[string]string{"id": companyID}, nil, label)
	if err != nil {
		return nil, err
	}

	var prediction entity.PricePrediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, r.parseError(ctx, pathPrediction, err, label)
	}
	return &prediction, nil
}

func (r *marketAPIRepository) GetSentiment(ctx context.Context, companyID string) (*entity.Sentiment, error) {
	const label = "No sentiment found"
	body, err := r.sendRequest(ctx, pathSentiment, map[string]string{"id": companyID}, nil, label)
	if err != nil {
		return nil, err
	}

	var sentiment entity.Sentiment
	if err := json.Unmarshal(body, &sentiment); err != nil {
		return nil, r.parseError(ctx, pathSentiment, err, label)
	}
	return &sentiment, nil
}

func (r *marketAPIRepository) GetIndicator(ctx context.Context, companyID string, kind entity.IndicatorKind) (*entity.IndicatorSeries, error) {
	const label = "Failed to fetch indicator data"
	params := map[string]string{"id": companyID, "kind": string(kind)}
	body, err := r.sendRequest(ctx, pathIndicator, params, nil, label)
	if err != nil {
		return nil, err
	}

	page, err := decodePage[entity.IndicatorPoint](body)
	if err != nil {
		return nil, r.parseError(ctx, pathIndicator, err, label)
	}
	return &entity.IndicatorSeries{Kind: kind, Points: page.Content}, nil
}

// Ping checks that the market API answers the company list endpoint.
func (r *marketAPIRepository) Ping(ctx context.Context) error {
	_, err := r.sendRequest(ctx, pathCompanies, nil, nil, "Market API unreachable")
	return err
}

func (r *marketAPIRepository) sendRequest(ctx context.Context, path string, pathParams, query map[string]string, label string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("path", path),
		zap.Any("path_params", pathParams),
		zap.Int("max_request_per_minute", r.cfg.MarketAPI.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, AsAPIError(err, label)
	}

	req := r.client.R().SetContext(ctx)
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}
	if query != nil {
		req.SetQueryParams(query)
	}

	start := time.Now()
	resp, err := req.Get(path)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to market API", fields...)
		return nil, AsAPIError(fmt.Errorf("request %s failed: %w", path, err), label)
	}

	fields = append(fields,
		zap.Int("status_code", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if !resp.IsSuccess() {
		r.log.WarnContext(ctx, "Received non-success response from market API", fields...)
		return nil, NewAPIError(resp.StatusCode(), errorMessage(resp), label)
	}

	r.log.DebugContext(ctx, "Market API request completed", fields...)
	return resp.Body(), nil
}

func (r *marketAPIRepository) parseError(ctx context.Context, path string, err error, label string) error {
	r.log.ErrorContext(ctx, "Failed to parse market API response", zap.String("path", path), zap.Error(err))
	return NewAPIError(http.StatusBadGateway, err.Error(), label)
}

// errorMessage extracts {"error": ...} or {"message": ...} from an error body,
// falling back to the (truncated) raw body or the status text.
func errorMessage(resp *resty.Response) string {
	body := resp.Body()
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(resp.StatusCode())
	}
	if len(text) > maxErrorBodyBytes {
		text = text[:maxErrorBodyBytes]
	}
	return text
}
