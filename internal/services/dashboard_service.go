package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salespulse/internal/dataprocessing"
	"salespulse/internal/metrics"
	"salespulse/pkg/contracts/domain"
)

// FilterOptions are the values a dashboard can filter on.
type FilterOptions struct {
	Months       []string `json:"months"`
	Cities       []string `json:"cities"`
	ProductLines []string `json:"product_lines"`
	Payments     []string `json:"payments"`
}

// DashboardView is everything the dashboard renders for one selection.
type DashboardView struct {
	Selection     metrics.Selection       `json:"selection"`
	Rows          int                     `json:"rows"`
	KPIs          domain.KPISet           `json:"kpis"`
	ByDay         domain.Rollup           `json:"by_day"`
	ByProductLine domain.Rollup           `json:"by_product_line"`
	ByCity        domain.Rollup           `json:"by_city"`
	PaymentMix    domain.Rollup           `json:"payment_mix"`
	Monthly       []domain.MonthlySummary `json:"monthly"`
}

// DashboardService answers dashboard queries over a loaded table.
type DashboardService struct {
	table           *dataprocessing.Table
	cashlessMethods []string
	logger          *slog.Logger
	now             func() time.Time
}

// NewDashboardService creates a dashboard service over table.
func NewDashboardService(table *dataprocessing.Table, cashlessMethods []string, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cashlessMethods) == 0 {
		cashlessMethods = metrics.DefaultCashlessMethods
	}
	return &DashboardService{
		table:           table,
		cashlessMethods: cashlessMethods,
		logger:          logger.With(slog.String("service", "dashboard")),
		now:             time.Now,
	}
}

// Stats returns how the underlying table was loaded.
func (s *DashboardService) Stats() dataprocessing.LoadStats {
	return s.table.Stats()
}

// Rows returns the size of the loaded table.
func (s *DashboardService) Rows() int {
	return s.table.Len()
}

// FilterOptions lists the distinct non-empty values available for filtering.
func (s *DashboardService) FilterOptions(ctx context.Context) (FilterOptions, error) {
	if s.table == nil {
		return FilterOptions{}, ErrDatasetNotLoaded
	}
	return FilterOptions{
		Months:       nonEmpty(s.table.Months()),
		Cities:       nonEmpty(s.table.Cities()),
		ProductLines: nonEmpty(s.table.ProductLines()),
		Payments:     nonEmpty(s.table.Payments()),
	}, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// KPIs computes the KPIs of the selected rows.
func (s *DashboardService) KPIs(ctx context.Context, sel metrics.Selection) (domain.KPISet, error) {
	filtered, err := s.filter(ctx, sel)
	if err != nil {
		return domain.KPISet{}, err
	}
	return metrics.ComputeKPIs(filtered), nil
}

// Rollup groups the selected rows by dimension.
func (s *DashboardService) Rollup(ctx context.Context, dimension string, sel metrics.Selection) (domain.Rollup, error) {
	dim, err := domain.ParseDimension(dimension)
	if err != nil {
		return domain.Rollup{}, fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}
	filtered, err := s.filter(ctx, sel)
	if err != nil {
		return domain.Rollup{}, err
	}
	return metrics.Rollup(filtered, dim)
}

// Monthly returns the per-period summary of the selected rows.
func (s *DashboardService) Monthly(ctx context.Context, sel metrics.Selection) ([]domain.MonthlySummary, error) {
	filtered, err := s.filter(ctx, sel)
	if err != nil {
		return nil, err
	}
	return metrics.MonthlySummary(filtered), nil
}

// Snapshot builds the executive snapshot of the selected rows.
func (s *DashboardService) Snapshot(ctx context.Context, sel metrics.Selection) (domain.BusinessSnapshot, error) {
	filtered, err := s.filter(ctx, sel)
	if err != nil {
		return domain.BusinessSnapshot{}, err
	}
	return metrics.BuildSnapshot(filtered, s.cashlessMethods, s.now()), nil
}

// View computes the full dashboard for a selection from one filtered table.
func (s *DashboardService) View(ctx context.Context, sel metrics.Selection) (DashboardView, error) {
	filtered, err := s.filter(ctx, sel)
	if err != nil {
		return DashboardView{}, err
	}
	return DashboardView{
		Selection:     sel,
		Rows:          filtered.Len(),
		KPIs:          metrics.ComputeKPIs(filtered),
		ByDay:         metrics.RevenueByDay(filtered),
		ByProductLine: metrics.RevenueByProductLine(filtered),
		ByCity:        metrics.RevenueByCity(filtered),
		PaymentMix:    metrics.PaymentMix(filtered),
		Monthly:       metrics.MonthlySummary(filtered),
	}, nil
}

func (s *DashboardService) filter(ctx context.Context, sel metrics.Selection) (*dataprocessing.Table, error) {
	if s.table == nil {
		return nil, ErrDatasetNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filtered := metrics.Filter(s.table, sel)
	s.logger.DebugContext(ctx, "selection applied",
		slog.Int("rows", filtered.Len()),
		slog.Any("months", sel.Months),
		slog.Any("cities", sel.Cities),
		slog.Any("product_lines", sel.ProductLines))
	return filtered, nil
}
