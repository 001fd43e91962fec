package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salespulse/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatRating keeps the extra precision of averaged ratings
func formatRating(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatNullDecimal renders a missing optional measure as an empty cell
func formatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// humanPrinter formats numbers with thousands separators for reports read by people.
var humanPrinter = message.NewPrinter(language.English)

// formatMoney renders 1234.5 as "$1,234.50"
func formatMoney(f float64) string {
	if f < 0 {
		return humanPrinter.Sprintf("-$%.2f", -f)
	}
	return humanPrinter.Sprintf("$%.2f", f)
}

// formatCount renders 1234 as "1,234"
func formatCount(n int) string {
	return humanPrinter.Sprintf("%d", n)
}

// formatRecordDate keeps the time of day unless it is midnight, so a
// re-ingested export sorts the same way within a day.
func formatRecordDate(t time.Time) string {
	switch {
	case t.Location() != time.UTC || t.Nanosecond() != 0:
		return t.Format(time.RFC3339Nano)
	case t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0:
		return t.Format(domain.DayLayout)
	default:
		return t.Format("2006-01-02 15:04:05")
	}
}
