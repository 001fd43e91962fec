package dataprocessing

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// LoadStats describes how a source was turned into a Table.
type LoadStats struct {
	Profile           string `json:"profile"`
	RowsRead          int    `json:"rows_read"`
	RowsAdmitted      int    `json:"rows_admitted"`
	DroppedBadDate    int    `json:"dropped_bad_date"`
	DroppedBadMeasure int    `json:"dropped_bad_measure"`
}

// Dropped is the number of rows trimmed during ingestion.
func (s LoadStats) Dropped() int {
	return s.DroppedBadDate + s.DroppedBadMeasure
}

// Table is the canonical, date-ordered sales table. It is never modified
// after construction; derived tables are independent copies.
type Table struct {
	records []domain.SalesRecord
	stats   LoadStats
}

// NewTable builds a Table from records, copying and stably sorting them by date.
// Records without a period get one derived from their date.
func NewTable(records []domain.SalesRecord) *Table {
	t := &Table{records: copyRecords(records)}
	for i := range t.records {
		if t.records[i].Period == "" {
			t.records[i].Period = t.records[i].Date.Format(domain.PeriodLayout)
		}
	}
	sortByDate(t.records)
	return t
}

// newTableOwned wraps records already in date order without copying.
func newTableOwned(records []domain.SalesRecord, stats LoadStats) *Table {
	return &Table{records: records, stats: stats}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At returns the i-th record.
func (t *Table) At(i int) domain.SalesRecord {
	return t.records[i]
}

// Records returns a copy of all records in date order.
func (t *Table) Records() []domain.SalesRecord {
	if t == nil {
		return nil
	}
	return copyRecords(t.records)
}

// Each calls fn for every record in order without copying the slice.
func (t *Table) Each(fn func(domain.SalesRecord)) {
	if t == nil {
		return
	}
	for _, r := range t.records {
		fn(r)
	}
}

// Stats returns the ingestion statistics of the table. Derived tables report zero stats.
func (t *Table) Stats() LoadStats {
	if t == nil {
		return LoadStats{}
	}
	return t.stats
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return NewTable(nil)
	}
	return &Table{records: copyRecords(t.records), stats: t.stats}
}

// Where returns a new table holding the records for which keep returns true.
func (t *Table) Where(keep func(domain.SalesRecord) bool) *Table {
	out := make([]domain.SalesRecord, 0, t.Len())
	t.Each(func(r domain.SalesRecord) {
		if keep(r) {
			out = append(out, r)
		}
	})
	return newTableOwned(out, LoadStats{})
}

// Months returns the sorted distinct periods.
func (t *Table) Months() []string {
	return t.distinct(func(r domain.SalesRecord) string { return r.Period })
}

// Cities returns the sorted distinct cities.
func (t *Table) Cities() []string {
	return t.distinct(func(r domain.SalesRecord) string { return r.City })
}

// ProductLines returns the sorted distinct product lines.
func (t *Table) ProductLines() []string {
	return t.distinct(func(r domain.SalesRecord) string { return r.ProductLine })
}

// Payments returns the sorted distinct payment methods.
func (t *Table) Payments() []string {
	return t.distinct(func(r domain.SalesRecord) string { return r.Payment })
}

// distinct includes the empty value when a record lacks the dimension, so
// selecting every distinct value keeps every record.
func (t *Table) distinct(key func(domain.SalesRecord) string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	t.Each(func(r domain.SalesRecord) {
		k := key(r)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			values = append(values, k)
		}
	})
	sort.Strings(values)
	return values
}

func copyRecords(records []domain.SalesRecord) []domain.SalesRecord {
	out := make([]domain.SalesRecord, len(records))
	copy(out, records)
	return out
}

func sortByDate(records []domain.SalesRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
