// Package services implements the application layer of salespulse. It sits
// between the HTTP handlers and binaries on one side and the ingestion,
// metrics, validation and exporter packages on the other.
//
// # Services
//
//	DashboardService  KPIs, rollups and snapshots over an injected table
//	ReportService     writes report artifacts concurrently
//	QualityService    runs data contracts and writes the quality report
//	HealthService     liveness and readiness for the dashboard API
//
// No service caches a dataset globally: the loaded table is passed in at
// construction and read without modification.
package services
