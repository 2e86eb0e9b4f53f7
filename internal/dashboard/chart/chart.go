package chart

import (
	"fmt"
	"sort"
	"strings"

	"traderflow/internal/entity"

	"github.com/shopspring/decimal"
)

const (
	SeriesClose = "Close"
	SeriesMax   = "Max"
	SeriesMin   = "Min"
)

// Point is one value of a series.
type Point struct {
	Date  entity.Date     `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Series is a named line on the chart.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Chart holds the close, max and min series over one shared date axis.
type Chart struct {
	Dates  []entity.Date   `json:"dates"`
	Series []Series        `json:"series"`
	Low    decimal.Decimal `json:"low"`
	High   decimal.Decimal `json:"high"`
}

// FilterHistory keeps the points whose date lies inside r, bounds included.
// Order is preserved.
func FilterHistory(points []entity.StockDataPoint, r entity.DateRange) []entity.StockDataPoint {
	if r.IsZero() {
		return points
	}
	out := make([]entity.StockDataPoint, 0, len(points))
	for _, p := range points {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// Build orders points by ascending date and derives the three price series.
func Build(points []entity.StockDataPoint) Chart {
	sorted := make([]entity.StockDataPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	c := Chart{
		Dates: make([]entity.Date, 0, len(sorted)),
		Series: []Series{
			{Name: SeriesClose, Color: "#3b82f6"},
			{Name: SeriesMax, Color: "#22c55e"},
			{Name: SeriesMin, Color: "#ef4444"},
		},
	}
	for i, p := range sorted {
		c.Dates = append(c.Dates, p.Date)
		c.Series[0].Points = append(c.Series[0].Points, Point{Date: p.Date, Value: p.Price})
		c.Series[1].Points = append(c.Series[1].Points, Point{Date: p.Date, Value: p.Max})
		c.Series[2].Points = append(c.Series[2].Points, Point{Date: p.Date, Value: p.Min})

		lo := decimal.Min(p.Price, p.Max, p.Min)
		hi := decimal.Max(p.Price, p.Max, p.Min)
		if i == 0 || lo.LessThan(c.Low) {
			c.Low = lo
		}
		if i == 0 || hi.GreaterThan(c.High) {
			c.High = hi
		}
	}
	return c
}

// IsEmpty reports whether the chart has no dates.
func (c Chart) IsEmpty() bool {
	return len(c.Dates) == 0
}

// Polyline returns SVG polyline points for series s scaled into a width x height box.
func (c Chart) Polyline(s Series, width, height float64) string {
	n := len(s.Points)
	if n == 0 {
		return ""
	}

	span := c.High.Sub(c.Low)
	var b strings.Builder
	for i, p := range s.Points {
		x := width / 2
		if n > 1 {
			x = float64(i) / float64(n-1) * width
		}
		y := height / 2
		if span.IsPositive() {
			ratio, _ := p.Value.Sub(c.Low).Div(span).Float64()
			y = height - ratio*height
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return b.String()
}
