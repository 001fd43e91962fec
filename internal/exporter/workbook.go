package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SheetMonthly     = "Monthly Summary"
	SheetKPIs        = "KPIs"
	SheetCity        = "By City"
	SheetProductLine = "By Product Line"
	SheetPayment     = "Payment Mix"
)

// WorkbookData is everything rendered into the summary workbook.
type WorkbookData struct {
	KPIs    domain.KPISet
	Monthly []domain.MonthlySummary
	Rollups []domain.Rollup
}

// WorkbookWriter renders report data as an XLSX workbook.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write saves data to outputPath, one sheet per view.
func (w *WorkbookWriter) Write(ctx context.Context, data WorkbookData, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// The default sheet becomes the monthly summary.
	if err := f.SetSheetName("Sheet1", SheetMonthly); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}

	monthlyRows := make([][]interface{}, 0, len(data.Monthly))
	for _, m := range data.Monthly {
		monthlyRows = append(monthlyRows, []interface{}{m.Month, m.Revenue, m.Orders, m.AvgRating, m.GrossIncome, m.AvgTicket})
	}
	if err := writeSheet(f, SheetMonthly, toInterfaces(monthlySummaryHeaders), monthlyRows, headerStyle); err != nil {
		return err
	}

	kpiRows := [][]interface{}{
		{"revenue", data.KPIs.Revenue},
		{"orders", data.KPIs.Orders},
		{"avg_ticket", data.KPIs.AvgTicket},
		{"avg_rating", data.KPIs.AvgRating},
		{"gross_income", data.KPIs.GrossIncome},
	}
	if err := writeSheet(f, SheetKPIs, []interface{}{"kpi", "value"}, kpiRows, headerStyle); err != nil {
		return err
	}

	for _, r := range data.Rollups {
		sheet, ok := rollupSheets[r.Dimension]
		if !ok {
			continue
		}
		rows := make([][]interface{}, 0, len(r.Entries))
		for _, e := range r.Entries {
			rows = append(rows, []interface{}{e.Key, e.Total.InexactFloat64()})
		}
		if err := writeSheet(f, sheet, []interface{}{string(r.Dimension), "total"}, rows, headerStyle); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		slog.String("file_path", outputPath),
		slog.Int("months", len(data.Monthly)),
		slog.Int("rollups", len(data.Rollups)))
	return nil
}

var rollupSheets = map[domain.Dimension]string{
	domain.DimensionCity:        SheetCity,
	domain.DimensionProductLine: SheetProductLine,
	domain.DimensionPayment:     SheetPayment,
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	end, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i, sheet, err)
		}
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
