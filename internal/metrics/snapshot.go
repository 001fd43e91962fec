package metrics

import (
	"time"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// DefaultCashlessMethods are the payment methods counted as cashless.
var DefaultCashlessMethods = []string{"Credit Card", "Mobile Wallet"}

// BuildSnapshot computes the executive snapshot of t. Monetary values and
// percentages are rounded to two decimals. An empty table yields a zero
// snapshot with an empty period.
func BuildSnapshot(t *dataprocessing.Table, cashlessMethods []string, now time.Time) domain.BusinessSnapshot {
	acc := newTotals()
	t.Each(acc.add)

	monthly := RevenueByMonth(t)
	snapshot := domain.BusinessSnapshot{
		KPIs: domain.SnapshotKPIs{
			Revenue:          round2(acc.revenue),
			Orders:           acc.orders(),
			AvgTicket:        round2(acc.avgTicket()),
			AvgRating:        round2(acc.avgRating()),
			CashlessSharePct: round2(CashlessShare(t, cashlessMethods)),
			GrowthPct:        round2(PeriodGrowth(monthly)),
		},
		Leaders: domain.SnapshotLeaders{
			TopCity:        leader(RevenueByCity(t), acc),
			TopProductLine: leader(RevenueByProductLine(t), acc),
		},
		GeneratedAt: now.UTC(),
	}

	if n := len(monthly.Entries); n > 0 {
		snapshot.Period = domain.SnapshotPeriod{
			StartMonth: monthly.Entries[0].Key,
			EndMonth:   monthly.Entries[n-1].Key,
		}
	}
	return snapshot
}

func leader(r domain.Rollup, acc *totals) domain.Leader {
	top, ok := TopEntry(r)
	if !ok {
		return domain.Leader{}
	}
	return domain.Leader{
		Name:     top.Key,
		Revenue:  round2(top.Total),
		SharePct: round2(ShareOfTotal(top.Total, acc.revenue)),
	}
}
