package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SentimentLabel is the news sentiment classification.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentOther    SentimentLabel = "other"
)

// Kind normalizes the raw label, mapping anything unknown to SentimentOther.
func (l SentimentLabel) Kind() SentimentLabel {
	switch SentimentLabel(strings.ToLower(strings.TrimSpace(string(l)))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	case SentimentNeutral:
		return SentimentNeutral
	default:
		return SentimentOther
	}
}

// Sentiment is the news sentiment computed for a company.
type Sentiment struct {
	Key   string          `json:"key"`
	Label SentimentLabel  `json:"sentiment"`
	Score decimal.Decimal `json:"score"`
}
