package chart

import (
	"strings"
	"testing"

	"traderflow/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(date string, price, max, min float64) entity.StockDataPoint {
	return entity.StockDataPoint{
		Date:  entity.MustParseDate(date),
		Price: decimal.NewFromFloat(price),
		Max:   decimal.NewFromFloat(max),
		Min:   decimal.NewFromFloat(min),
	}
}

func dates(points []entity.StockDataPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Date.String()
	}
	return out
}

func TestFilterHistory(t *testing.T) {
	history := []entity.StockDataPoint{
		point("2024-01-04", 13, 14, 12),
		point("2024-01-01", 10, 11, 9),
		point("2024-01-03", 12, 13, 11),
		point("2024-01-02", 11, 12, 10),
	}

	tests := []struct {
		name       string
		start, end string
		want       []string
	}{
		{"no range", "", "", []string{"2024-01-04", "2024-01-01", "2024-01-03", "2024-01-02"}},
		{"inclusive bounds", "2024-01-02", "2024-01-03", []string{"2024-01-03", "2024-01-02"}},
		{"open end", "2024-01-03", "", []string{"2024-01-04", "2024-01-03"}},
		{"open start", "", "2024-01-01", []string{"2024-01-01"}},
		{"no overlap", "2025-01-01", "2025-02-01", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := entity.ParseDateRange(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dates(FilterHistory(history, r)))
		})
	}
}

func TestBuildOrdersSeriesAscending(t *testing.T) {
	c := Build([]entity.StockDataPoint{
		point("2024-01-03", 12, 13, 11),
		point("2024-01-01", 10, 11, 9),
		point("2024-01-02", 11, 15, 10),
	})

	require.Len(t, c.Dates, 3)
	assert.Equal(t, "2024-01-01", c.Dates[0].String())
	assert.Equal(t, "2024-01-03", c.Dates[2].String())

	require.Len(t, c.Series, 3)
	assert.Equal(t, SeriesClose, c.Series[0].Name)
	assert.Equal(t, SeriesMax, c.Series[1].Name)
	assert.Equal(t, SeriesMin, c.Series[2].Name)
	for _, s := range c.Series {
		require.Len(t, s.Points, 3)
		for i, p := range s.Points {
			assert.Equal(t, c.Dates[i], p.Date)
		}
	}
	assert.Equal(t, "10", c.Series[0].Points[0].Value.String())
	assert.Equal(t, "15", c.Series[1].Points[1].Value.String())

	assert.Equal(t, "9", c.Low.String())
	assert.Equal(t, "15", c.High.String())
}

func TestBuildEmpty(t *testing.T) {
	c := Build(nil)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "", c.Polyline(c.Series[0], 800, 300))
}

func TestPolyline(t *testing.T) {
	c := Build([]entity.StockDataPoint{
		point("2024-01-01", 10, 20, 10),
		point("2024-01-02", 20, 20, 10),
	})

	assert.Equal(t, "0.0,100.0 100.0,0.0", c.Polyline(c.Series[0], 100, 100))

	flat := Build([]entity.StockDataPoint{point("2024-01-01", 5, 5, 5)})
	assert.Equal(t, "50.0,50.0", flat.Polyline(flat.Series[0], 100, 100))
	assert.False(t, strings.Contains(flat.Polyline(flat.Series[1], 100, 100), "NaN"))
}
