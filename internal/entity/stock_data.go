package entity

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// StockDataPoint is one trading day of price history.
type StockDataPoint struct {
	Date          Date            `json:"date"`
	Price         decimal.Decimal `json:"price"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	Min           decimal.Decimal `json:"min"`
	Max           decimal.Decimal `json:"max"`
	PriceChange   decimal.Decimal `json:"price_change"`
	Volume        Volume          `json:"volume"`
	BestTurnover  decimal.Decimal `json:"best_turnover"`
	TotalTurnover decimal.Decimal `json:"total_turnover"`
}

// Volume is a traded share count. The upstream serializes it as a float.
type Volume int64

func (v *Volume) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = 0
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid volume %q: %w", data, err)
	}
	*v = Volume(d.IntPart())
	return nil
}
