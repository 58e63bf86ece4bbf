package report

import (
	"log/slog"
	"math"

	"github.com/rachel-analytics/invoice-insight/internal/llm"
)

// centTolerance absorbs rounding drift when comparing quantity × unit_price
// against a stated line total.
const centTolerance = 0.01

// Totals holds the two aggregated sums the report template expects.
type Totals struct {
	Material float64
	Labor    float64
}

// SumByType accumulates each item's total price into the sum matching its
// classification. ItemType is a two-variant enum at the decode boundary, so
// the partition is exhaustive: Material + Labor equals the sum over all items.
func SumByType(items []llm.LineItem) (Totals, error) {
	var t Totals
	for _, it := range items {
		amount, err := ParseAmount(it.TotalPrice)
		if err != nil {
			return Totals{}, err
		}
		switch it.ItemType {
		case llm.ItemTypeMaterial:
			t.Material += amount
		case llm.ItemTypeLabor:
			t.Labor += amount
		}
	}
	return t, nil
}

// LineConsistent reports whether quantity × unit_price matches the stated
// total within a cent. Rolled-up section totals legitimately disagree (their
// quantity refers to the section, not the sum), so an inconsistent line is
// logged, never rejected.
func LineConsistent(it llm.LineItem) bool {
	qty, err := ParseAmount(it.Quantity)
	if err != nil {
		return true // no quantity to check against
	}
	unit, err := ParseAmount(it.UnitPrice)
	if err != nil {
		return true
	}
	total, err := ParseAmount(it.TotalPrice)
	if err != nil {
		return true
	}
	return math.Abs(qty*unit-total) <= centTolerance+math.Abs(total)*1e-9
}

func warnInconsistentLines(items []llm.LineItem, logger *slog.Logger) {
	for _, it := range items {
		if !LineConsistent(it) {
			logger.Warn("report.line_total_mismatch",
				"item", it.Item,
				"quantity", it.Quantity,
				"unit_price", it.UnitPrice,
				"total_price", it.TotalPrice,
			)
		}
	}
}
