package dto

import "traderflow/internal/entity"

// GetPriceHistoryParam selects one page of a company's price history.
type GetPriceHistoryParam struct {
	CompanyID string
	Page      int
	Size      int
	Range     entity.DateRange
}

// PriceHistory is the normalized price-history response. Company is set only
// when the upstream embeds the page inside a company record.
type PriceHistory struct {
	Company *entity.Company                    `json:"company,omitempty"`
	Page    entity.Page[entity.StockDataPoint] `json:"stock_data"`
}
