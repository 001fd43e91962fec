package metrics

import (
	"sort"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// MonthlySummary aggregates t per period in chronological order.
func MonthlySummary(t *dataprocessing.Table) []domain.MonthlySummary {
	byPeriod := make(map[string]*totals)
	t.Each(func(r domain.SalesRecord) {
		acc, ok := byPeriod[r.Period]
		if !ok {
			acc = newTotals()
			byPeriod[r.Period] = acc
		}
		acc.add(r)
	})

	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	summaries := make([]domain.MonthlySummary, 0, len(periods))
	for _, p := range periods {
		acc := byPeriod[p]
		summaries = append(summaries, domain.MonthlySummary{
			Month:       p,
			Revenue:     acc.revenue.InexactFloat64(),
			Orders:      acc.orders(),
			AvgRating:   acc.avgRating().InexactFloat64(),
			GrossIncome: acc.grossIncome.InexactFloat64(),
			AvgTicket:   acc.avgTicket().InexactFloat64(),
		})
	}
	return summaries
}
