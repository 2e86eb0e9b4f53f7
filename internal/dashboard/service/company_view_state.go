package service

import (
	"traderflow/internal/dashboard/chart"
	"traderflow/internal/dashboard/loader"
	"traderflow/internal/dashboard/repository"
	"traderflow/internal/entity"
)

const (
	TextLoading = "Loading..."
	TextNA      = "N/A"
)

// CompanyViewState is an immutable snapshot of a CompanyView.
type CompanyViewState struct {
	CompanyID     string                                          `json:"company_id"`
	Tab           Tab                                             `json:"tab"`
	IndicatorKind entity.IndicatorKind                            `json:"indicator_kind"`
	DateRange     entity.DateRange                                `json:"date_range"`
	Loading       bool                                            `json:"loading"`
	Statuses      map[string]loader.Status                        `json:"statuses"`
	Company       loader.Slot[entity.Company]                     `json:"company"`
	History       loader.Slot[entity.Page[entity.StockDataPoint]] `json:"history"`
	Prediction    loader.Slot[entity.PricePrediction]             `json:"prediction"`
	Sentiment     loader.Slot[entity.Sentiment]                   `json:"sentiment"`
	Indicator     loader.Slot[entity.IndicatorSeries]             `json:"indicator"`

	// FilteredHistory is the loaded history narrowed to DateRange; the table and the chart both show it.
	FilteredHistory []entity.StockDataPoint `json:"filtered_history"`
	Chart           chart.Chart             `json:"chart"`
}

// ShowLoadingPlaceholder is true while fetches are pending and none has produced data.
func (s CompanyViewState) ShowLoadingPlaceholder() bool {
	if !s.Loading {
		return false
	}
	return !s.Company.Loaded() && !s.Company.Failed() &&
		!s.History.Loaded() && !s.Prediction.Loaded() && !s.Sentiment.Loaded()
}

// ShowError is true when the company record failed; nothing nested is rendered then.
func (s CompanyViewState) ShowError() bool {
	return s.Company.Failed()
}

// CompanyError returns the company failure as an APIError, or nil.
func (s CompanyViewState) CompanyError() *repository.APIError {
	if !s.Company.Failed() {
		return nil
	}
	return repository.AsAPIError(s.Company.Err, "Failed to load company details")
}

// ShowDetails is true when nested sections may be rendered.
func (s CompanyViewState) ShowDetails() bool {
	return !s.ShowLoadingPlaceholder() && !s.ShowError()
}

// PredictionText renders the predicted price slot.
func (s CompanyViewState) PredictionText() string {
	switch {
	case s.Prediction.Failed():
		return TextNA
	case s.Prediction.Loaded():
		return Fixed2(s.Prediction.Data.Prediction) + " mkd."
	default:
		return TextLoading
	}
}

// SentimentText renders the sentiment slot.
func (s CompanyViewState) SentimentText() string {
	switch {
	case s.Sentiment.Failed():
		return TextNA
	case s.Sentiment.Loaded():
		return string(s.Sentiment.Data.Label)
	default:
		return TextLoading
	}
}

// SentimentClass is the color class of the loaded sentiment label.
func (s CompanyViewState) SentimentClass() string {
	if !s.Sentiment.Loaded() {
		return ""
	}
	return SentimentClass(s.Sentiment.Data.Label)
}

// HistoryText reports the history placeholder, or "" when rows should be rendered.
func (s CompanyViewState) HistoryText() string {
	switch {
	case s.History.Pending():
		return TextLoading
	case len(s.FilteredHistory) == 0:
		return "No stock history available"
	default:
		return ""
	}
}

// IndicatorPoints returns the loaded indicator sequence.
func (s CompanyViewState) IndicatorPoints() []entity.IndicatorPoint {
	if !s.Indicator.Loaded() {
		return nil
	}
	return s.Indicator.Data.Points
}

// IndicatorError returns the indicator failure as an APIError, or nil.
func (s CompanyViewState) IndicatorError() *repository.APIError {
	if !s.Indicator.Failed() {
		return nil
	}
	return repository.AsAPIError(s.Indicator.Err, "Failed to fetch indicator data")
}
