package forecast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestMetricTotal(t *testing.T) {
	m := Metric{Name: "gross_lot_sales_revenue", Values: map[string]*float64{
		"2024": fp(1000),
		"2025": fp(2000),
		"2026": nil,
	}}
	assert.InDelta(t, 3000.0, m.Total(), 1e-9)
	assert.Equal(t, "$3,000.00", m.FormatValue(m.Total()))
}

func TestMetricTotalPlainCount(t *testing.T) {
	m := Metric{Name: "lots_sold", Values: map[string]*float64{"2024": fp(10)}}
	assert.InDelta(t, 10.0, m.Total(), 1e-9)
	assert.Equal(t, "10", m.FormatValue(m.Total()))
}

func TestIsMonetaryHeuristic(t *testing.T) {
	monetary := []string{"gross_lot_sales_revenue", "marketing_fee", "pod_sales", "other_revenue", "avg_revenue_per_lot", "total_gross_revenue"}
	for _, n := range monetary {
		assert.True(t, Metric{Name: n}.IsMonetary(), n)
	}
	for _, n := range []string{"lots_developed", "lots_sold"} {
		assert.False(t, Metric{Name: n}.IsMonetary(), n)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Gross Lot Sales Revenue", Metric{Name: "gross_lot_sales_revenue"}.DisplayName())
	assert.Equal(t, "Lots Sold", Metric{Name: "lots_sold"}.DisplayName())
}

func TestFormatNumberGroups(t *testing.T) {
	assert.Equal(t, "1,000,000", FormatNumber(1000000))
	assert.Equal(t, "10", FormatNumber(10))
}

func TestYearsSorted(t *testing.T) {
	table := RevenueTable{
		LotsSold:          map[string]*float64{"2026": fp(5), "2024": fp(10)},
		TotalGrossRevenue: map[string]*float64{"2025": fp(100)},
	}
	assert.Equal(t, []string{"2024", "2025", "2026"}, table.Years())
}

func TestBuildContext(t *testing.T) {
	table := RevenueTable{
		LotsSold:             map[string]*float64{"2024": fp(10), "2025": nil},
		GrossLotSalesRevenue: map[string]*float64{"2024": fp(1000), "2025": fp(2000)},
	}
	ctx := BuildContext(table)

	require.Contains(t, ctx, "Here is the revenue forecast data:")
	require.Contains(t, ctx, "Totals:")
	require.Contains(t, ctx, "- Total Lots Sold: 10")
	require.Contains(t, ctx, "- Total Gross Lot Sales Revenue: $3,000.00")
	require.Contains(t, ctx, "Yearly Breakdown:")
	require.Contains(t, ctx, "2024:")
	require.Contains(t, ctx, "2025:")

	// Totals come before the breakdown, years ascend.
	assert.Less(t, strings.Index(ctx, "Totals:"), strings.Index(ctx, "Yearly Breakdown:"))
	assert.Less(t, strings.Index(ctx, "2024:"), strings.Index(ctx, "2025:"))

	// The null 2025 lots_sold entry is excluded from that year's section.
	section2025 := ctx[strings.Index(ctx, "2025:"):]
	assert.NotContains(t, section2025, "Lots Sold")
	assert.Contains(t, section2025, "- Gross Lot Sales Revenue: $2,000.00")
}

func TestBuildContextEmptyTable(t *testing.T) {
	ctx := BuildContext(RevenueTable{})
	// All nine metric totals render even when no data arrived.
	assert.Contains(t, ctx, "- Total Lots Developed: 0")
	assert.Contains(t, ctx, "- Total Total Gross Revenue: $0.00")
	assert.NotContains(t, ctx, "202")
}
