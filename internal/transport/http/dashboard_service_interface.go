package http

import (
	"context"

	"salespulse/internal/metrics"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the queries the dashboard handler serves
type DashboardServiceInterface interface {
	FilterOptions(ctx context.Context) (services.FilterOptions, error)
	KPIs(ctx context.Context, sel metrics.Selection) (domain.KPISet, error)
	Rollup(ctx context.Context, dimension string, sel metrics.Selection) (domain.Rollup, error)
	Monthly(ctx context.Context, sel metrics.Selection) ([]domain.MonthlySummary, error)
	Snapshot(ctx context.Context, sel metrics.Selection) (domain.BusinessSnapshot, error)
	View(ctx context.Context, sel metrics.Selection) (services.DashboardView, error)
}
