package exporter

import (
	"context"

	"salespulse/pkg/contracts/domain"
)

var monthlySummaryHeaders = []string{"month", "revenue", "orders", "avg_rating", "gross_income", "avg_ticket"}

// MonthlyExporter writes the per-period summary as CSV
type MonthlyExporter struct {
	csvWriter *CSVWriter
	bomPrefix bool
}

// NewMonthlyExporter creates a monthly summary exporter
func NewMonthlyExporter(csvWriter *CSVWriter, bomPrefix bool) *MonthlyExporter {
	return &MonthlyExporter{csvWriter: csvWriter, bomPrefix: bomPrefix}
}

// ExportMonthlySummary writes summaries in the given order to outputPath
func (m *MonthlyExporter) ExportMonthlySummary(ctx context.Context, summaries []domain.MonthlySummary, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, monthlySummaryRow(s))
	}

	return m.csvWriter.WriteCSV(outputPath, WriteOptions{
		Headers:   monthlySummaryHeaders,
		Records:   records,
		BOMPrefix: m.bomPrefix,
	})
}

func monthlySummaryRow(s domain.MonthlySummary) []string {
	return []string{
		s.Month,
		formatFloat(s.Revenue),
		formatInt(int64(s.Orders)),
		formatRating(s.AvgRating),
		formatFloat(s.GrossIncome),
		formatFloat(s.AvgTicket),
	}
}
