package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// IndicatorKind names a technical indicator computed by the market API.
type IndicatorKind string

const (
	IndicatorRSI       IndicatorKind = "rsi"
	IndicatorStoch     IndicatorKind = "stoch"
	IndicatorWilliamsR IndicatorKind = "williamsr"
	IndicatorCCI       IndicatorKind = "cci"
	IndicatorMFI       IndicatorKind = "mfi"
	IndicatorEMA       IndicatorKind = "ema"
	IndicatorSMA       IndicatorKind = "sma"
	IndicatorWMA       IndicatorKind = "wma"

	DefaultIndicator = IndicatorRSI
)

// IndicatorOption pairs a kind with its display label.
type IndicatorOption struct {
	Kind  IndicatorKind
	Label string
}

// IndicatorOptions lists the selectable indicators in display order.
var IndicatorOptions = []IndicatorOption{
	{IndicatorRSI, "Relative Strength Index (RSI)"},
	{IndicatorStoch, "Stochastic Oscillator"},
	{IndicatorWilliamsR, "Williams %R"},
	{IndicatorCCI, "Commodity Channel Index (CCI)"},
	{IndicatorMFI, "Money Flow Index (MFI)"},
	{IndicatorEMA, "Exponential Moving Average (EMA)"},
	{IndicatorSMA, "Simple Moving Average (SMA)"},
	{IndicatorWMA, "Weighted Moving Average (WMA)"},
}

// ParseIndicatorKind validates s against the known indicator kinds. An empty
// string selects DefaultIndicator.
func ParseIndicatorKind(s string) (IndicatorKind, error) {
	kind := IndicatorKind(strings.ToLower(strings.TrimSpace(s)))
	if kind == "" {
		return DefaultIndicator, nil
	}
	for _, opt := range IndicatorOptions {
		if opt.Kind == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown indicator %q", s)
}

// Signal is the trading signal attached to an indicator value.
type Signal string

const (
	SignalBuy   Signal = "BUY"
	SignalSell  Signal = "SELL"
	SignalOther Signal = "OTHER"
)

// Kind normalizes the raw signal text to BUY, SELL or OTHER.
func (s Signal) Kind() Signal {
	switch Signal(strings.ToUpper(strings.TrimSpace(string(s)))) {
	case SignalBuy:
		return SignalBuy
	case SignalSell:
		return SignalSell
	default:
		return SignalOther
	}
}

// IndicatorPoint is one day of an indicator series.
type IndicatorPoint struct {
	Date      Date                `json:"date"`
	Close     decimal.Decimal     `json:"close"`
	Min       decimal.Decimal     `json:"min"`
	Max       decimal.Decimal     `json:"max"`
	Volume    Volume              `json:"volume"`
	Indicator decimal.NullDecimal `json:"indicator"`
	Signal    Signal              `json:"signal"`
}

// HasValue reports whether the indicator value is present and non-zero.
func (p IndicatorPoint) HasValue() bool {
	return p.Indicator.Valid && !p.Indicator.Decimal.IsZero()
}

func (p *IndicatorPoint) UnmarshalJSON(data []byte) error {
	type alias IndicatorPoint
	aux := struct {
		*alias
		Indicator json.RawMessage `json:"indicator"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.Indicator = decimal.NullDecimal{}
	raw := strings.Trim(strings.TrimSpace(string(aux.Indicator)), `"`)
	switch strings.ToLower(raw) {
	case "", "null", "nan", "none":
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid indicator value %q: %w", raw, err)
	}
	p.Indicator = decimal.NullDecimal{Decimal: d, Valid: true}
	return nil
}

// IndicatorSeries is the sequence fetched for one indicator kind.
type IndicatorSeries struct {
	Kind   IndicatorKind    `json:"kind"`
	Points []IndicatorPoint `json:"points"`
}
