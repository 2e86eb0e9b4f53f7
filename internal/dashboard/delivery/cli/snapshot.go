package cli

import (
	"fmt"
	"strings"

	"traderflow/internal/dashboard/service"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1).
		MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 1)

	headerCellStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle       = lipgloss.NewStyle().PaddingRight(2)

	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	classStyles = map[string]lipgloss.Style{
		"text-green-500":  lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		"text-red-500":    lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		"text-blue-500":   lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		"text-gray-500":   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		"text-orange-500": lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")),
	}
)

func styled(class, text string) string {
	if st, ok := classStyles[class]; ok {
		return st.Render(text)
	}
	return text
}

// RenderHome renders the company list for a terminal.
func RenderHome(state service.HomeViewState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TraderFlow"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Elevating your trading experience."))
	b.WriteString("\n\n")

	if state.Error != nil {
		b.WriteString(errorStyle.Render("Error fetching companies: " + state.Error.Message))
		b.WriteString("\n")
		return b.String()
	}
	rows := make([][]string, 0, len(state.Companies))
	for _, c := range state.Companies {
		rows = append(rows, []string{c.ShortName, c.DisplayName(), service.Fixed2(c.Price.Decimal) + " MKD."})
	}
	b.WriteString(table([]string{"Code", "Company", "Stock Price"}, rows))
	return b.String()
}

// RenderCompany renders a company view snapshot for a terminal, following the
// same placeholder rules as the HTML page.
func RenderCompany(state service.CompanyViewState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Company Details"))
	b.WriteString("\n")

	switch {
	case state.ShowLoadingPlaceholder():
		b.WriteString(service.TextLoading + "\n")
		return b.String()
	case state.ShowError():
		apiErr := state.CompanyError()
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %s", apiErr.Label, apiErr.Message)))
		b.WriteString("\n")
		return b.String()
	}

	name, price := service.TextLoading, service.TextLoading
	if state.Company.Loaded() {
		c := state.Company.Data
		name = c.DisplayName()
		price = service.TextNA
		if c.Price.Valid {
			price = service.Fixed2(c.Price.Decimal) + " mkd. (" + service.Percent(c.PriceChange) + ")"
		}
	}
	details := strings.Join([]string{
		"Details for company: " + name,
		"Price: " + price,
		"Sentiment: " + styled(state.SentimentClass(), state.SentimentText()),
		"Predicted Price: " + state.PredictionText(),
	}, "\n")
	b.WriteString(panelStyle.Render(details))
	b.WriteString("\n\n")

	if state.Tab == service.TabIndicators {
		b.WriteString(renderIndicators(state))
	} else {
		b.WriteString(renderHistory(state))
	}
	return b.String()
}

func renderHistory(state service.CompanyViewState) string {
	if text := state.HistoryText(); text != "" {
		return mutedStyle.Render(text) + "\n"
	}
	rows := make([][]string, 0, len(state.FilteredHistory))
	for _, p := range state.FilteredHistory {
		rows = append(rows, []string{
			p.Date.String(),
			service.Fixed2(p.Price),
			service.Fixed2(p.Max),
			service.Fixed2(p.Min),
			service.Fixed2(p.AveragePrice),
			service.Percent(p.PriceChange),
			service.VolumeText(p.Volume),
			service.Thousands(p.BestTurnover),
		})
	}
	return table([]string{"Date", "Last Trade Price", "Max", "Min", "Avg.", "Price % Chg.", "Volume", "Turnover in BEST (Denars)"}, rows)
}

func renderIndicators(state service.CompanyViewState) string {
	if apiErr := state.IndicatorError(); apiErr != nil {
		return errorStyle.Render("Error fetching indicator data") + "\n" + apiErr.Message + "\n"
	}
	if state.Indicator.Pending() {
		return mutedStyle.Render(service.TextLoading) + "\n"
	}
	points := state.IndicatorPoints()
	if len(points) == 0 {
		return mutedStyle.Render("No indicator data available") + "\n"
	}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Date.String(),
			service.Fixed2(p.Close),
			service.Fixed2(p.Max),
			service.Fixed2(p.Min),
			service.IndicatorText(p),
			styled(service.SignalClass(p.Signal), string(p.Signal)),
			service.VolumeText(p.Volume),
		})
	}
	title := mutedStyle.Render("Indicator: " + string(state.IndicatorKind))
	return title + "\n" + table([]string{"Date", "Close", "Max", "Min", "Indicator", "Signal", "Volume"}, rows)
}

// table lays out rows in columns sized to their widest cell.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, st lipgloss.Style) string {
		out := make([]string, len(cells))
		for i, cell := range cells {
			out[i] = st.Width(widths[i] + 2).Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, out...)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, line(headers, headerCellStyle))
	for _, row := range rows {
		lines = append(lines, line(row, cellStyle))
	}
	return strings.Join(lines, "\n") + "\n"
}
