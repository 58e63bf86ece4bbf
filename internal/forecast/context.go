package forecast

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCurrency renders a value as US-dollar currency ($#,##0.00).
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatNumber renders a value as a thousands-grouped integer.
func FormatNumber(v float64) string {
	return humanize.FormatFloat("#,###.", v)
}

// FormatValue picks the rendering for a metric's value by the naming heuristic.
func (m Metric) FormatValue(v float64) string {
	if m.IsMonetary() {
		return FormatCurrency(v)
	}
	return FormatNumber(v)
}

// BuildContext renders the revenue table as the narrative grounding block
// handed to the chat model: per-metric totals first, then a per-year
// breakdown listing only the metrics with a value for that year.
func BuildContext(t RevenueTable) string {
	var b strings.Builder
	b.WriteString("Here is the revenue forecast data:\n")

	b.WriteString("\nTotals:\n")
	for _, m := range t.Metrics() {
		b.WriteString("- Total ")
		b.WriteString(m.DisplayName())
		b.WriteString(": ")
		b.WriteString(m.FormatValue(m.Total()))
		b.WriteString("\n")
	}

	b.WriteString("\nYearly Breakdown:\n")
	for _, year := range t.Years() {
		b.WriteString("\n")
		b.WriteString(year)
		b.WriteString(":\n")
		for _, m := range t.Metrics() {
			v, ok := m.Values[year]
			if !ok || v == nil {
				continue
			}
			b.WriteString("- ")
			b.WriteString(m.DisplayName())
			b.WriteString(": ")
			b.WriteString(m.FormatValue(*v))
			b.WriteString("\n")
		}
	}
	return b.String()
}
