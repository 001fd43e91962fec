package metrics

import (
	"strings"

	"github.com/shopspring/decimal"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// TopEntry returns the first entry of a rollup, which for categorical
// dimensions is the highest-total group.
func TopEntry(r domain.Rollup) (domain.RollupEntry, bool) {
	if len(r.Entries) == 0 {
		return domain.RollupEntry{}, false
	}
	return r.Entries[0], true
}

// ShareOfTotal expresses value as a percentage of revenue. It is 0 when
// revenue is 0.
func ShareOfTotal(value, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return value.Div(revenue).Mul(hundred)
}

// PeriodGrowth compares the last and first entries of a chronological
// rollup as a percentage. It is 0 with fewer than two periods or when the
// first period's revenue is 0.
func PeriodGrowth(r domain.Rollup) decimal.Decimal {
	if len(r.Entries) < 2 {
		return decimal.Zero
	}
	first := r.Entries[0].Total
	last := r.Entries[len(r.Entries)-1].Total
	if first.IsZero() {
		return decimal.Zero
	}
	return last.Sub(first).Div(first).Mul(hundred)
}

// CashlessShare is the percentage of revenue paid with one of methods.
// Methods match case-insensitively and ignore surrounding whitespace.
func CashlessShare(t *dataprocessing.Table, methods []string) decimal.Decimal {
	cashless := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		cashless[normalizeMethod(m)] = struct{}{}
	}
	if len(cashless) == 0 {
		return decimal.Zero
	}

	revenue := decimal.Zero
	paid := decimal.Zero
	t.Each(func(r domain.SalesRecord) {
		revenue = revenue.Add(r.Total)
		if _, ok := cashless[normalizeMethod(r.Payment)]; ok {
			paid = paid.Add(r.Total)
		}
	})
	return ShareOfTotal(paid, revenue)
}

func normalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

// round2 rounds half away from zero to two decimals.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
