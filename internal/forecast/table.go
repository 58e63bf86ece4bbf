// Package forecast turns a table of yearly revenue metrics into a narrative
// context block and answers questions about it through a chat model.
package forecast

import (
	"sort"
	"strings"
)

// RevenueTable maps each of the nine known metrics to year → optional value.
// The year sets are assumed consistent across metrics; this is not validated.
type RevenueTable struct {
	LotsDeveloped        map[string]*float64 `json:"lots_developed"`
	LotsSold             map[string]*float64 `json:"lots_sold"`
	GrossLotSalesRevenue map[string]*float64 `json:"gross_lot_sales_revenue"`
	AvgRevenuePerFront   map[string]*float64 `json:"avg_revenue_per_front"`
	AvgRevenuePerLot     map[string]*float64 `json:"avg_revenue_per_lot"`
	PodSales             map[string]*float64 `json:"pod_sales"`
	MarketingFee         map[string]*float64 `json:"marketing_fee"`
	OtherRevenue         map[string]*float64 `json:"other_revenue"`
	TotalGrossRevenue    map[string]*float64 `json:"total_gross_revenue"`
}

// Metric is one named row of the table, in declaration order.
type Metric struct {
	Name   string
	Values map[string]*float64
}

// Metrics returns the table rows in their fixed presentation order.
func (t RevenueTable) Metrics() []Metric {
	return []Metric{
		{"lots_developed", t.LotsDeveloped},
		{"lots_sold", t.LotsSold},
		{"gross_lot_sales_revenue", t.GrossLotSalesRevenue},
		{"avg_revenue_per_front", t.AvgRevenuePerFront},
		{"avg_revenue_per_lot", t.AvgRevenuePerLot},
		{"pod_sales", t.PodSales},
		{"marketing_fee", t.MarketingFee},
		{"other_revenue", t.OtherRevenue},
		{"total_gross_revenue", t.TotalGrossRevenue},
	}
}

// Total sums the non-null yearly values of one metric.
func (m Metric) Total() float64 {
	var sum float64
	for _, v := range m.Values {
		if v != nil {
			sum += *v
		}
	}
	return sum
}

// Years returns every year label present in any metric, sorted
// lexicographically (4-digit year strings sort correctly as strings).
func (t RevenueTable) Years() []string {
	seen := map[string]struct{}{}
	for _, m := range t.Metrics() {
		for y := range m.Values {
			seen[y] = struct{}{}
		}
	}
	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// DisplayName renders a metric key for humans: underscores to spaces,
// title case ("gross_lot_sales_revenue" -> "Gross Lot Sales Revenue").
func (m Metric) DisplayName() string {
	words := strings.Split(m.Name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// IsMonetary applies the naming heuristic: metrics whose name mentions
// revenue, fees, or sales are formatted as currency; the rest as counts.
func (m Metric) IsMonetary() bool {
	n := strings.ToLower(m.Name)
	return strings.Contains(n, "revenue") || strings.Contains(n, "fee") || strings.Contains(n, "sales")
}
