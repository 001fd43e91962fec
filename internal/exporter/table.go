package exporter

import (
	"context"
	"fmt"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

var cleanSalesHeaders = []string{
	"Invoice ID", "Branch", "City", "Customer type", "Customer Name", "Gender",
	"Product line", "Unit price", "Quantity", "Tax 5%", "Total", "Date", "Time",
	"Payment", "cogs", "gross margin percentage", "Gross income", "Rating", "Month",
}

// TableExporter streams the canonical table to CSV in its date order
type TableExporter struct {
	csvWriter *CSVWriter
	bomPrefix bool
}

// NewTableExporter creates a canonical table exporter
func NewTableExporter(csvWriter *CSVWriter, bomPrefix bool) *TableExporter {
	return &TableExporter{csvWriter: csvWriter, bomPrefix: bomPrefix}
}

// ExportTable writes every record of t to outputPath
func (e *TableExporter) ExportTable(ctx context.Context, t *dataprocessing.Table, outputPath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, cleanSalesHeaders, e.bomPrefix)
	if err != nil {
		return err
	}

	for i := 0; i < t.Len(); i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				stream.Close()
				return err
			}
		}
		if err := stream.WriteRecord(recordToCSVRow(t.At(i))); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return stream.Close()
}

func recordToCSVRow(r domain.SalesRecord) []string {
	return []string{
		r.InvoiceID,
		r.Branch,
		r.City,
		r.CustomerType,
		r.CustomerName,
		r.Gender,
		r.ProductLine,
		formatNullDecimal(r.UnitPrice),
		formatInt(r.Quantity),
		formatNullDecimal(r.Tax),
		r.Total.String(),
		formatRecordDate(r.Date),
		r.Time,
		r.Payment,
		formatNullDecimal(r.COGS),
		formatNullDecimal(r.GrossMarginPct),
		r.GrossIncome.String(),
		r.Rating.String(),
		r.Period,
	}
}
