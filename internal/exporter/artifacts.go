package exporter

// Artifact file names written to the artifacts directory.
const (
	MonthlySummaryCSV    = "monthly_summary.csv"
	MonthlySummaryXLSX   = "monthly_summary.xlsx"
	CleanSalesCSV        = "sales_clean.csv"
	BusinessSnapshotJSON = "business_snapshot.json"
	BusinessSnapshotMD   = "business_snapshot.md"
	QualityReportJSON    = "quality_report.json"
	QualityReportHTML    = "quality_report.html"
)
