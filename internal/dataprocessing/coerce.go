package dataprocessing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order; month-first wins over day-first for
// ambiguous slash dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"02.01.2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"20060102",
}

// parseDate parses s leniently. ok is false when no layout matches.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDecimal coerces s to a decimal. Unparsable or empty input is null.
// With a comma decimal separator both "63,5" and "63.5" are accepted, but a
// value mixing both separators is rejected.
func parseDecimal(s string, decimalSep rune) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	if decimalSep == ',' && strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			return decimal.NullDecimal{}
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parseQuantity coerces s to an integral count. Fractional values are null.
func parseQuantity(s string, decimalSep rune) (int64, bool) {
	d := parseDecimal(s, decimalSep)
	if !d.Valid || !d.Decimal.Equal(d.Decimal.Truncate(0)) {
		return 0, false
	}
	return d.Decimal.IntPart(), true
}
