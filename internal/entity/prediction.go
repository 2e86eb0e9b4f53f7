package entity

import "github.com/shopspring/decimal"

// PricePrediction is the next-day price predicted for a company.
type PricePrediction struct {
	Key        string          `json:"key"`
	Prediction decimal.Decimal `json:"prediction"`
}
