package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"salespulse/internal/dataprocessing"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/metrics"
	"salespulse/pkg/contracts/domain"
)

// ArtifactRecorder receives the outcome of every artifact write.
type ArtifactRecorder interface {
	RecordArtifact(artifact string, err error)
}

type nopArtifactRecorder struct{}

func (nopArtifactRecorder) RecordArtifact(string, error) {}

// ReportOptions selects the artifacts ReportService writes.
type ReportOptions struct {
	ArtifactsDir    string
	CashlessMethods []string
	Workbook        bool
	CleanExport     bool
	BOMPrefix       bool
}

// ReportResult lists what a report run produced.
type ReportResult struct {
	Artifacts map[string]string
	Monthly   []domain.MonthlySummary
	Snapshot  domain.BusinessSnapshot
	Duration  time.Duration
}

// ArtifactNames returns the written artifact names in sorted order.
func (r ReportResult) ArtifactNames() []string {
	names := make([]string, 0, len(r.Artifacts))
	for name := range r.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReportService writes the monthly summary and business snapshot artifacts.
type ReportService struct {
	opts     ReportOptions
	logger   *slog.Logger
	recorder ArtifactRecorder
	now      func() time.Time

	monthly  *exporter.MonthlyExporter
	table    *exporter.TableExporter
	workbook *exporter.WorkbookWriter
	snapshot *exporter.SnapshotWriter
}

// NewReportService creates a report service writing into opts.ArtifactsDir.
func NewReportService(opts ReportOptions, recorder ArtifactRecorder, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopArtifactRecorder{}
	}
	if len(opts.CashlessMethods) == 0 {
		opts.CashlessMethods = metrics.DefaultCashlessMethods
	}
	logger = logger.With(slog.String("service", "report"))

	// Artifact paths are joined onto ArtifactsDir before they reach the writer.
	csvWriter := exporter.NewCSVWriter("", logger)
	return &ReportService{
		opts:     opts,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
		monthly:  exporter.NewMonthlyExporter(csvWriter, opts.BOMPrefix),
		table:    exporter.NewTableExporter(csvWriter, opts.BOMPrefix),
		workbook: exporter.NewWorkbookWriter(logger),
		snapshot: exporter.NewSnapshotWriter(logger),
	}
}

// Generate computes the report views of t and writes every artifact
// concurrently. Writers only read t. The first failure cancels the others
// and is returned as a STORAGE error.
func (s *ReportService) Generate(ctx context.Context, t *dataprocessing.Table) (ReportResult, error) {
	if t == nil {
		return ReportResult{}, ErrDatasetNotLoaded
	}

	ctx, span := infrastructure.Tracer().Start(ctx, "report.generate")
	defer span.End()
	start := time.Now()

	monthly := metrics.MonthlySummary(t)
	snapshot := metrics.BuildSnapshot(t, s.opts.CashlessMethods, s.now())
	workbookData := exporter.WorkbookData{
		KPIs:    metrics.ComputeKPIs(t),
		Monthly: monthly,
		Rollups: []domain.Rollup{
			metrics.RevenueByCity(t),
			metrics.RevenueByProductLine(t),
			metrics.PaymentMix(t),
		},
	}

	jobs := map[string]func(ctx context.Context, path string) error{
		exporter.MonthlySummaryCSV: func(ctx context.Context, path string) error {
			return s.monthly.ExportMonthlySummary(ctx, monthly, path)
		},
		exporter.BusinessSnapshotJSON: func(ctx context.Context, path string) error {
			return s.snapshot.WriteJSON(ctx, snapshot, path)
		},
		exporter.BusinessSnapshotMD: func(ctx context.Context, path string) error {
			return s.snapshot.WriteMarkdown(ctx, snapshot, path)
		},
	}
	if s.opts.Workbook {
		jobs[exporter.MonthlySummaryXLSX] = func(ctx context.Context, path string) error {
			return s.workbook.Write(ctx, workbookData, path)
		}
	}
	if s.opts.CleanExport {
		jobs[exporter.CleanSalesCSV] = func(ctx context.Context, path string) error {
			return s.table.ExportTable(ctx, t, path)
		}
	}

	artifacts := make(map[string]string, len(jobs))
	for name := range jobs {
		artifacts[name] = filepath.Join(s.opts.ArtifactsDir, name)
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, job := range jobs {
		name, job := name, job
		path := artifacts[name]
		g.Go(func() error {
			err := job(gctx, path)
			s.recorder.RecordArtifact(name, err)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "artifact write failed")
		s.logger.ErrorContext(ctx, "report generation failed", slog.String("error", err.Error()))
		return ReportResult{}, apierrors.NewStorageError("failed to write report artifacts", err)
	}

	result := ReportResult{
		Artifacts: artifacts,
		Monthly:   monthly,
		Snapshot:  snapshot,
		Duration:  time.Since(start),
	}
	span.SetAttributes(attribute.Int("artifacts", len(artifacts)), attribute.Int("rows", t.Len()))
	s.logger.InfoContext(ctx, "report generated",
		slog.Int("rows", t.Len()),
		slog.Any("artifacts", result.ArtifactNames()),
		slog.Duration("duration", result.Duration))
	return result, nil
}
