// Package exporter writes report artifacts derived from the canonical sales table.
//
// This package contains these components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// MonthlyExporter and TableExporter: monthly_summary.csv and the cleaned
// sales_clean.csv export, built on CSVWriter.
//
// WorkbookWriter: monthly_summary.xlsx with KPI and rollup sheets.
//
// SnapshotWriter: business_snapshot.json and business_snapshot.md.
//
// QualityReportWriter: quality_report.json and quality_report.html from a
// contract validation run.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter("artifacts", logger)
//	monthly := exporter.NewMonthlyExporter(csvWriter, false)
//	err := monthly.ExportMonthlySummary(ctx, metrics.MonthlySummary(table), exporter.MonthlySummaryCSV)
package exporter
