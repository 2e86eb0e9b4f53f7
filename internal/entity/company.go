package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Company is the identity and latest price snapshot of a listed company.
// Some upstream versions embed a page of price history in the same record.
type Company struct {
	ShortName   string                `json:"short_name"`
	Name        string                `json:"name"`
	Price       decimal.NullDecimal   `json:"price"`
	PriceChange decimal.Decimal       `json:"price_change"`
	StockData   *Page[StockDataPoint] `json:"stock_data,omitempty"`
}

// DisplayName falls back to the short name when the company has no full name.
func (c Company) DisplayName() string {
	if c.Name == "" {
		return c.ShortName
	}
	return c.Name
}

// companyJSON accepts every field spelling seen across upstream versions.
type companyJSON struct {
	ShortName      string                `json:"short_name"`
	ShortNameCamel string                `json:"shortName"`
	CompanyKey     string                `json:"company_key"`
	CompanyKeyCam  string                `json:"companyKey"`
	Name           string                `json:"name"`
	Price          decimal.NullDecimal   `json:"price"`
	PriceChange    decimal.NullDecimal   `json:"price_change"`
	PriceChangeCam decimal.NullDecimal   `json:"priceChange"`
	StockData      *Page[StockDataPoint] `json:"stock_data"`
	StockDataCamel *Page[StockDataPoint] `json:"stockData"`
}

func (c *Company) UnmarshalJSON(data []byte) error {
	var aux companyJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*c = Company{
		ShortName: firstNonEmpty(aux.ShortName, aux.CompanyKey, aux.ShortNameCamel, aux.CompanyKeyCam),
		Name:      aux.Name,
		Price:     aux.Price,
		StockData: aux.StockData,
	}
	if c.StockData == nil {
		c.StockData = aux.StockDataCamel
	}
	switch {
	case aux.PriceChange.Valid:
		c.PriceChange = aux.PriceChange.Decimal
	case aux.PriceChangeCam.Valid:
		c.PriceChange = aux.PriceChangeCam.Decimal
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
