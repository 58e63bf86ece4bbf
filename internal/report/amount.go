package report

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rachel-analytics/invoice-insight/internal/common"
)

// ParseAmount converts a currency-formatted string ("$1,234.56") to its
// numeric value. The dollar sign, thousands separators, and surrounding
// whitespace are stripped; anything non-numeric after that is a parse error.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, common.ParseError("empty amount", common.ErrMalformed)
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, common.ParseError("malformed amount "+strconv.Quote(s), err)
	}
	return f, nil
}

// FormatUSD renders an amount as US-dollar currency ($#,##0.00).
// Formatting a parsed amount and re-parsing yields the original value.
func FormatUSD(f float64) string {
	if f < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -f)
	}
	return "$" + humanize.FormatFloat("#,###.##", f)
}
