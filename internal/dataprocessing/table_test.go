package dataprocessing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

func sampleRecord(id, city string, day int) domain.SalesRecord {
	return domain.SalesRecord{
		InvoiceID: id,
		City:      city,
		Total:     decimal.NewFromInt(10),
		Date:      time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewTable_SortsAndDerivesPeriod(t *testing.T) {
	input := []domain.SalesRecord{sampleRecord("b", "X", 3), sampleRecord("a", "Y", 1), sampleRecord("c", "X", 3)}
	table := NewTable(input)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, "a", table.At(0).InvoiceID)
	assert.Equal(t, "b", table.At(1).InvoiceID)
	assert.Equal(t, "c", table.At(2).InvoiceID)
	assert.Equal(t, "2024-01", table.At(0).Period)

	input[0].InvoiceID = "mutated"
	assert.Equal(t, "b", table.At(1).InvoiceID, "table must not alias its input")
}

func TestTable_RecordsAreCopies(t *testing.T) {
	table := NewTable([]domain.SalesRecord{sampleRecord("a", "X", 1)})

	records := table.Records()
	records[0].City = "changed"
	assert.Equal(t, "X", table.At(0).City)

	clone := table.Clone()
	assert.Equal(t, table.Records(), clone.Records())
}

func TestTable_WhereAndDistinct(t *testing.T) {
	table := NewTable([]domain.SalesRecord{sampleRecord("a", "Toronto", 1), sampleRecord("b", "", 2), sampleRecord("c", "Chicago", 3), sampleRecord("d", "Toronto", 4)})

	assert.Equal(t, []string{"", "Chicago", "Toronto"}, table.Cities(), "records without a city keep an empty value")

	toronto := table.Where(func(r domain.SalesRecord) bool { return r.City == "Toronto" })
	assert.Equal(t, 2, toronto.Len())
	assert.Equal(t, 4, table.Len())
}

func TestTable_NilSafe(t *testing.T) {
	var table *Table
	assert.Zero(t, table.Len())
	assert.Nil(t, table.Records())
	assert.Equal(t, LoadStats{}, table.Stats())
	assert.Zero(t, table.Clone().Len())
}
