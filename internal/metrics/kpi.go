package metrics

import (
	"github.com/shopspring/decimal"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// totals accumulates the measures behind a KPI set.
type totals struct {
	revenue     decimal.Decimal
	grossIncome decimal.Decimal
	ratingSum   decimal.Decimal
	rows        int64
	invoices    map[string]struct{}
}

func newTotals() *totals {
	return &totals{invoices: make(map[string]struct{})}
}

func (a *totals) add(r domain.SalesRecord) {
	a.revenue = a.revenue.Add(r.Total)
	a.grossIncome = a.grossIncome.Add(r.GrossIncome)
	a.ratingSum = a.ratingSum.Add(r.Rating)
	a.rows++
	if r.InvoiceID != "" {
		a.invoices[r.InvoiceID] = struct{}{}
	}
}

func (a *totals) orders() int {
	return len(a.invoices)
}

func (a *totals) avgTicket() decimal.Decimal {
	if a.orders() == 0 {
		return decimal.Zero
	}
	return a.revenue.Div(decimal.NewFromInt(int64(a.orders())))
}

func (a *totals) avgRating() decimal.Decimal {
	if a.rows == 0 {
		return decimal.Zero
	}
	return a.ratingSum.Div(decimal.NewFromInt(a.rows))
}

// ComputeKPIs returns the executive KPIs of t. An empty table yields all zeros.
// Orders counts distinct invoice ids; the average rating is row-weighted.
func ComputeKPIs(t *dataprocessing.Table) domain.KPISet {
	acc := newTotals()
	t.Each(acc.add)

	return domain.KPISet{
		Revenue:     acc.revenue.InexactFloat64(),
		Orders:      acc.orders(),
		AvgTicket:   acc.avgTicket().InexactFloat64(),
		AvgRating:   acc.avgRating().InexactFloat64(),
		GrossIncome: acc.grossIncome.InexactFloat64(),
	}
}

// Revenue returns the exact sum of totals of t.
func Revenue(t *dataprocessing.Table) decimal.Decimal {
	sum := decimal.Zero
	t.Each(func(r domain.SalesRecord) { sum = sum.Add(r.Total) })
	return sum
}
