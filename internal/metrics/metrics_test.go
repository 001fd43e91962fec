package metrics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/dataprocessing"
	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

func record(id, city, productLine, payment, total, grossIncome, rating, date string) domain.SalesRecord {
	d, err := time.Parse(domain.DayLayout, date)
	if err != nil {
		panic(err)
	}
	return domain.SalesRecord{
		InvoiceID:   id,
		City:        city,
		ProductLine: productLine,
		Payment:     payment,
		Quantity:    1,
		Total:       decimal.RequireFromString(total),
		GrossIncome: decimal.RequireFromString(grossIncome),
		Rating:      decimal.RequireFromString(rating),
		Date:        d,
	}
}

func goldenTable() *dataprocessing.Table {
	return dataprocessing.NewTable(testutil.GoldenRecords())
}

func keys(r domain.Rollup) []string {
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.Key)
	}
	return out
}

func TestComputeKPIs_Golden(t *testing.T) {
	kpis := ComputeKPIs(goldenTable())

	assert.InDelta(t, 189.0, kpis.Revenue, 1e-9)
	assert.Equal(t, 4, kpis.Orders)
	assert.InDelta(t, 47.25, kpis.AvgTicket, 1e-9)
	assert.InDelta(t, 180.0, kpis.GrossIncome, 1e-9)
	assert.InDelta(t, 8.175, kpis.AvgRating, 1e-9)
}

func TestComputeKPIs_Empty(t *testing.T) {
	for _, table := range []*dataprocessing.Table{nil, dataprocessing.NewTable(nil)} {
		kpis := ComputeKPIs(table)
		assert.Equal(t, domain.KPISet{}, kpis)
		assert.False(t, math.IsNaN(kpis.AvgTicket))
		assert.False(t, math.IsNaN(kpis.AvgRating))
	}
}

func TestComputeKPIs_OrdersAreDistinctInvoices(t *testing.T) {
	table := dataprocessing.NewTable([]domain.SalesRecord{
		record("A", "X", "P1", "Cash", "10", "1", "6", "2024-01-01"),
		record("A", "X", "P2", "Cash", "30", "1", "8", "2024-01-01"),
		record("B", "X", "P1", "Cash", "20", "1", "10", "2024-01-02"),
	})

	kpis := ComputeKPIs(table)
	assert.Equal(t, 2, kpis.Orders)
	assert.InDelta(t, 30.0, kpis.AvgTicket, 1e-9)
	assert.InDelta(t, 8.0, kpis.AvgRating, 1e-9, "rating is row weighted")
}

func TestComputeKPIs_OrderIndependent(t *testing.T) {
	records := testutil.GoldenRecords()
	want := ComputeKPIs(dataprocessing.NewTable(records))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(records), func(a, b int) { records[a], records[b] = records[b], records[a] })
		assert.Equal(t, want, ComputeKPIs(dataprocessing.NewTable(records)))
	}
}

func TestRollup(t *testing.T) {
	table := goldenTable()

	tests := []struct {
		dim    domain.Dimension
		keys   []string
		totals []string
	}{
		{domain.DimensionCity, []string{"Toronto", "Chicago", "Vancouver"}, []string{"94.5", "63", "31.5"}},
		{domain.DimensionProductLine, []string{"Health and beauty", "Electronic accessories", "Sports and travel"}, []string{"94.5", "63", "31.5"}},
		{domain.DimensionPayment, []string{"Cash", "Credit Card", "Mobile Wallet"}, []string{"63", "63", "63"}},
		{domain.DimensionMonth, []string{"2024-01", "2024-02"}, []string{"126", "63"}},
		{domain.DimensionDay, []string{"2024-01-05", "2024-01-15", "2024-02-01", "2024-02-10"}, []string{"63", "63", "31.5", "31.5"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dim), func(t *testing.T) {
			r, err := Rollup(table, tt.dim)
			require.NoError(t, err)
			assert.Equal(t, tt.dim, r.Dimension)
			assert.Equal(t, tt.keys, keys(r))
			for i, want := range tt.totals {
				assert.True(t, r.Entries[i].Total.Equal(decimal.RequireFromString(want)), "%s: got %s", r.Entries[i].Key, r.Entries[i].Total)
			}
		})
	}
}

func TestRollup_Ordering(t *testing.T) {
	table := dataprocessing.NewTable([]domain.SalesRecord{
		record("1", "B", "", "", "5", "1", "5", "2024-03-01"),
		record("2", "A", "", "", "5", "1", "5", "2024-01-01"),
		record("3", "C", "", "", "9", "1", "5", "2024-02-01"),
		record("4", "", "", "", "100", "1", "5", "2024-02-01"),
	})

	byCity := RevenueByCity(table)
	assert.Equal(t, []string{"C", "A", "B"}, keys(byCity), "ties break by key and empty keys are skipped")
	for i := 1; i < len(byCity.Entries); i++ {
		assert.True(t, byCity.Entries[i].Total.LessThanOrEqual(byCity.Entries[i-1].Total))
	}

	byDay := RevenueByDay(table)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, keys(byDay))
	assert.True(t, byDay.Entries[1].Total.Equal(decimal.NewFromInt(109)))

	assert.Empty(t, PaymentMix(table).Entries)
}

func TestRollup_UnknownDimension(t *testing.T) {
	_, err := Rollup(goldenTable(), domain.Dimension("gender"))
	assert.ErrorContains(t, err, "unsupported dimension")
}

func TestFilter(t *testing.T) {
	table := goldenTable()

	t.Run("no predicates returns equal copy", func(t *testing.T) {
		filtered := Filter(table, Selection{})
		assert.Equal(t, table.Records(), filtered.Records())
		assert.NotSame(t, table, filtered)
	})

	t.Run("full distinct values is identity", func(t *testing.T) {
		filtered := Filter(table, Selection{
			Months:       table.Months(),
			Cities:       table.Cities(),
			ProductLines: table.ProductLines(),
		})
		assert.Equal(t, table.Records(), filtered.Records())
	})

	t.Run("full distinct values keeps rows missing a dimension", func(t *testing.T) {
		gaps := dataprocessing.NewTable([]domain.SalesRecord{
			record("INV-1", "Toronto", "Health and beauty", "Cash", "10", "1", "7", "2024-01-05"),
			record("INV-2", "", "", "Cash", "20", "1", "8", "2024-01-06"),
		})

		filtered := Filter(gaps, Selection{
			Months:       gaps.Months(),
			Cities:       gaps.Cities(),
			ProductLines: gaps.ProductLines(),
		})
		assert.Equal(t, gaps.Records(), filtered.Records())
	})

	t.Run("predicates are combined with AND", func(t *testing.T) {
		filtered := Filter(table, Selection{Months: []string{"2024-01"}, Cities: []string{"Toronto"}})
		require.Equal(t, 1, filtered.Len())
		assert.Equal(t, "INV-001", filtered.At(0).InvoiceID)
	})

	t.Run("unknown value yields empty table", func(t *testing.T) {
		filtered := Filter(table, Selection{Cities: []string{"Lisbon"}})
		assert.Zero(t, filtered.Len())
		assert.Equal(t, domain.KPISet{}, ComputeKPIs(filtered))
	})

	t.Run("filtered result is ordered by date", func(t *testing.T) {
		filtered := Filter(table, Selection{Cities: []string{"Toronto", "Vancouver"}})
		for i := 1; i < filtered.Len(); i++ {
			assert.False(t, filtered.At(i).Date.Before(filtered.At(i-1).Date))
		}
	})
}

func TestFilter_DoesNotAlias(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
	}{
		{"clone path", Selection{}},
		{"where path", Selection{Cities: []string{"Toronto"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := testutil.GoldenRecords()
			table := dataprocessing.NewTable(source)
			filtered := Filter(table, tt.sel)
			require.NotZero(t, filtered.Len())
			before := table.Records()
			filteredBefore := filtered.Records()

			source[0].City = "Lisbon"
			fromFiltered := filtered.Records()
			fromFiltered[0].City = "Lisbon"
			fromFiltered[0].Total = decimal.NewFromInt(999)
			fromTable := table.Records()
			fromTable[0].Payment = "Barter"

			assert.Equal(t, before, table.Records())
			assert.Equal(t, filteredBefore, filtered.Records())
		})
	}
}

func TestCashlessShare_CaseInsensitive(t *testing.T) {
	table := dataprocessing.NewTable([]domain.SalesRecord{
		record("INV-1", "Toronto", "Health and beauty", "credit card", "10", "1", "7", "2024-01-05"),
		record("INV-2", "Toronto", "Health and beauty", "Cash", "10", "1", "7", "2024-01-06"),
		record("INV-3", "Toronto", "Health and beauty", " MOBILE WALLET ", "20", "1", "7", "2024-01-07"),
	})

	assert.True(t, CashlessShare(table, DefaultCashlessMethods).Equal(decimal.NewFromInt(75)))
	assert.True(t, CashlessShare(table, []string{"cash"}).Equal(decimal.NewFromInt(25)))
}

func TestExecutiveMetrics(t *testing.T) {
	table := goldenTable()

	top, ok := TopEntry(RevenueByCity(table))
	require.True(t, ok)
	assert.Equal(t, "Toronto", top.Key)

	_, ok = TopEntry(domain.Rollup{})
	assert.False(t, ok)

	assert.True(t, ShareOfTotal(top.Total, Revenue(table)).Equal(decimal.NewFromInt(50)))
	assert.True(t, ShareOfTotal(decimal.NewFromInt(5), decimal.Zero).IsZero())

	assert.True(t, PeriodGrowth(RevenueByMonth(table)).Equal(decimal.NewFromInt(-50)))
	assert.True(t, PeriodGrowth(domain.Rollup{Entries: []domain.RollupEntry{{Key: "2024-01", Total: decimal.NewFromInt(5)}}}).IsZero())
	assert.True(t, PeriodGrowth(domain.Rollup{Entries: []domain.RollupEntry{
		{Key: "2024-01", Total: decimal.Zero},
		{Key: "2024-02", Total: decimal.NewFromInt(5)},
	}}).IsZero())

	assert.Equal(t, 66.67, round2(CashlessShare(table, DefaultCashlessMethods)))
	assert.True(t, CashlessShare(table, nil).IsZero())
}

func TestMonthlySummary(t *testing.T) {
	summary := MonthlySummary(goldenTable())
	require.Len(t, summary, 2)

	assert.Equal(t, domain.MonthlySummary{
		Month: "2024-01", Revenue: 126, Orders: 2, AvgRating: 7.85, GrossIncome: 90, AvgTicket: 63,
	}, summary[0])
	assert.Equal(t, domain.MonthlySummary{
		Month: "2024-02", Revenue: 63, Orders: 2, AvgRating: 8.5, GrossIncome: 90, AvgTicket: 31.5,
	}, summary[1])

	assert.Empty(t, MonthlySummary(dataprocessing.NewTable(nil)))
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := BuildSnapshot(goldenTable(), DefaultCashlessMethods, now)

	assert.Equal(t, domain.SnapshotPeriod{StartMonth: "2024-01", EndMonth: "2024-02"}, snap.Period)
	assert.Equal(t, domain.SnapshotKPIs{
		Revenue:          189,
		Orders:           4,
		AvgTicket:        47.25,
		AvgRating:        8.18,
		CashlessSharePct: 66.67,
		GrowthPct:        -50,
	}, snap.KPIs)
	assert.Equal(t, domain.Leader{Name: "Toronto", Revenue: 94.5, SharePct: 50}, snap.Leaders.TopCity)
	assert.Equal(t, domain.Leader{Name: "Health and beauty", Revenue: 94.5, SharePct: 50}, snap.Leaders.TopProductLine)
	assert.Equal(t, now, snap.GeneratedAt)
}

func TestBuildSnapshot_Empty(t *testing.T) {
	snap := BuildSnapshot(dataprocessing.NewTable(nil), DefaultCashlessMethods, time.Unix(0, 0))
	assert.Equal(t, domain.SnapshotPeriod{}, snap.Period)
	assert.Equal(t, domain.SnapshotKPIs{}, snap.KPIs)
	assert.Equal(t, domain.Leader{}, snap.Leaders.TopCity)
}
