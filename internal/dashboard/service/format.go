package service

import (
	"strconv"
	"strings"

	"traderflow/internal/entity"

	"github.com/shopspring/decimal"
)

// Fixed2 formats d with exactly two decimals.
func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent formats d as a two-decimal percentage.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// Thousands groups the integer part of d with commas and keeps up to three
// significant fraction digits.
func Thousands(d decimal.Decimal) string {
	s := d.Round(3).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// VolumeText formats a share count.
func VolumeText(v entity.Volume) string {
	return strconv.FormatInt(int64(v), 10)
}

// IndicatorText renders an indicator value, N/A when missing or zero.
func IndicatorText(p entity.IndicatorPoint) string {
	if !p.HasValue() {
		return TextNA
	}
	return p.Indicator.Decimal.String()
}

// SentimentClass maps a sentiment label to its color class.
func SentimentClass(label entity.SentimentLabel) string {
	switch label.Kind() {
	case entity.SentimentPositive:
		return "text-green-500"
	case entity.SentimentNegative:
		return "text-red-500"
	case entity.SentimentNeutral:
		return "text-blue-500"
	default:
		return "text-gray-500"
	}
}

// SignalClass maps an indicator signal to its color class.
func SignalClass(signal entity.Signal) string {
	switch signal.Kind() {
	case entity.SignalBuy:
		return "text-green-500"
	case entity.SignalSell:
		return "text-red-500"
	default:
		return "text-orange-500"
	}
}
