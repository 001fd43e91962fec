package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

// GoldenCSV is a four row sales export in the legacy layout: an anonymous
// index column, misspelled headers and rows out of date order.
const GoldenCSV = `Unnamed: 0,Invoice ID,Branch,City,Costumer type,Customer Name,Gender,Product line,Unit price,Quantity,Tax 5%,Total,Date,Time,Payment,cogs,gross margin percentage,gross income,Rating
0,INV-004,B,Vancouver,Normal,Dana Lee,Female,Sports and travel,30.0,1,1.5,31.5,2024-02-10,15:00,Cash,30.0,4.76,45.0,8.1
1,INV-001,A,Toronto,Member,Ana Silva,Female,Health and beauty,30.0,2,3.0,63.0,2024-01-05,10:00,Credit Card,60.0,4.76,45.0,7.5
2,INV-002,C,Chicago,Normal,Bruno Costa,Male,Electronic accessories,60.0,1,3.0,63.0,2024-01-15,11:30,Mobile Wallet,60.0,4.76,45.0,8.2
3,INV-003,A,Toronto,Member,Carla Souza,Female,Health and beauty,10.0,3,1.5,31.5,2024-02-01,12:45,Cash,30.0,4.76,45.0,8.9
`

// WriteSource writes content to name inside a fresh temp dir and returns the path
func WriteSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// GoldenRecords returns the canonical records of GoldenCSV in date order
func GoldenRecords() []domain.SalesRecord {
	return []domain.SalesRecord{
		Sale("INV-001", "Toronto", "Health and beauty", "Credit Card", "63.0", "45", "7.5", day(2024, time.January, 5)),
		Sale("INV-002", "Chicago", "Electronic accessories", "Mobile Wallet", "63.0", "45", "8.2", day(2024, time.January, 15)),
		Sale("INV-003", "Toronto", "Health and beauty", "Cash", "31.5", "45", "8.9", day(2024, time.February, 1)),
		Sale("INV-004", "Vancouver", "Sports and travel", "Cash", "31.5", "45", "8.1", day(2024, time.February, 10)),
	}
}

// Sale builds an admitted record. Numeric arguments are decimal strings and
// panic when malformed.
func Sale(invoice, city, productLine, payment, total, grossIncome, rating string, date time.Time) domain.SalesRecord {
	return domain.SalesRecord{
		InvoiceID:   invoice,
		City:        city,
		ProductLine: productLine,
		Payment:     payment,
		Quantity:    1,
		Total:       decimal.RequireFromString(total),
		GrossIncome: decimal.RequireFromString(grossIncome),
		Rating:      decimal.RequireFromString(rating),
		Date:        date,
		Period:      date.Format(domain.PeriodLayout),
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
