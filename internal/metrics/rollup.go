package metrics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// dimensionKey extracts the grouping key of a record for d.
func dimensionKey(d domain.Dimension) (func(domain.SalesRecord) string, error) {
	switch d {
	case domain.DimensionCity:
		return func(r domain.SalesRecord) string { return r.City }, nil
	case domain.DimensionProductLine:
		return func(r domain.SalesRecord) string { return r.ProductLine }, nil
	case domain.DimensionPayment:
		return func(r domain.SalesRecord) string { return r.Payment }, nil
	case domain.DimensionMonth:
		return func(r domain.SalesRecord) string { return r.Period }, nil
	case domain.DimensionDay:
		return func(r domain.SalesRecord) string { return r.Date.Format(domain.DayLayout) }, nil
	}
	return nil, fmt.Errorf("unsupported dimension %q", d)
}

// Rollup sums the total measure of t grouped by d. Categorical rollups are
// ordered by descending total with ties broken by ascending key; month and
// day rollups are ordered chronologically. Records with an empty key are
// left out of the grouping.
func Rollup(t *dataprocessing.Table, d domain.Dimension) (domain.Rollup, error) {
	key, err := dimensionKey(d)
	if err != nil {
		return domain.Rollup{}, err
	}

	sums := make(map[string]decimal.Decimal)
	t.Each(func(r domain.SalesRecord) {
		k := key(r)
		if k == "" {
			return
		}
		sums[k] = sums[k].Add(r.Total)
	})

	entries := make([]domain.RollupEntry, 0, len(sums))
	for k, total := range sums {
		entries = append(entries, domain.RollupEntry{Key: k, Total: total})
	}

	if d.Chronological() {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	} else {
		sort.Slice(entries, func(i, j int) bool {
			if c := entries[i].Total.Cmp(entries[j].Total); c != 0 {
				return c > 0
			}
			return entries[i].Key < entries[j].Key
		})
	}

	return domain.Rollup{Dimension: d, Entries: entries}, nil
}

func mustRollup(t *dataprocessing.Table, d domain.Dimension) domain.Rollup {
	r, err := Rollup(t, d)
	if err != nil {
		panic(err)
	}
	return r
}

// RevenueByCity ranks cities by revenue.
func RevenueByCity(t *dataprocessing.Table) domain.Rollup {
	return mustRollup(t, domain.DimensionCity)
}

// RevenueByProductLine ranks product lines by revenue.
func RevenueByProductLine(t *dataprocessing.Table) domain.Rollup {
	return mustRollup(t, domain.DimensionProductLine)
}

// PaymentMix ranks payment methods by revenue.
func PaymentMix(t *dataprocessing.Table) domain.Rollup {
	return mustRollup(t, domain.DimensionPayment)
}

// RevenueByDay is the daily revenue trend in date order.
func RevenueByDay(t *dataprocessing.Table) domain.Rollup {
	return mustRollup(t, domain.DimensionDay)
}

// RevenueByMonth is the monthly revenue trend in period order.
func RevenueByMonth(t *dataprocessing.Table) domain.Rollup {
	return mustRollup(t, domain.DimensionMonth)
}
