package services

import (
	"context"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"salespulse/internal/dataprocessing"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/validation"
)

// QualityService runs the data contracts and writes the quality report.
type QualityService struct {
	validator    *validation.ContractValidator
	writer       *exporter.QualityReportWriter
	artifactsDir string
	recorder     ArtifactRecorder
	logger       *slog.Logger
}

// NewQualityService creates a quality service writing into artifactsDir.
func NewQualityService(validator *validation.ContractValidator, artifactsDir string, recorder ArtifactRecorder, logger *slog.Logger) *QualityService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopArtifactRecorder{}
	}
	return &QualityService{
		validator:    validator,
		writer:       exporter.NewQualityReportWriter(logger),
		artifactsDir: artifactsDir,
		recorder:     recorder,
		logger:       logger.With(slog.String("service", "quality")),
	}
}

// Run validates t and writes quality_report.json and quality_report.html.
// related lists other artifacts to reference from the report.
func (s *QualityService) Run(ctx context.Context, t *dataprocessing.Table, related map[string]string) (validation.ContractReport, error) {
	ctx, span := infrastructure.Tracer().Start(ctx, "quality.run")
	defer span.End()

	report := s.validator.Validate(ctx, t)
	span.SetAttributes(attribute.Bool("gate_met", report.GateMet))
	qr := exporter.NewQualityReport(report, related)

	jsonPath := filepath.Join(s.artifactsDir, exporter.QualityReportJSON)
	err := s.writer.WriteJSON(ctx, qr, jsonPath)
	s.recorder.RecordArtifact(exporter.QualityReportJSON, err)
	if err != nil {
		span.SetStatus(codes.Error, "quality report write failed")
		return report, apierrors.NewStorageError("failed to write quality report", err)
	}

	htmlPath := filepath.Join(s.artifactsDir, exporter.QualityReportHTML)
	err = s.writer.WriteHTML(ctx, qr, htmlPath)
	s.recorder.RecordArtifact(exporter.QualityReportHTML, err)
	if err != nil {
		span.SetStatus(codes.Error, "quality report write failed")
		return report, apierrors.NewStorageError("failed to write quality report", err)
	}

	s.logger.InfoContext(ctx, "quality report written",
		slog.String("json", jsonPath),
		slog.String("html", htmlPath),
		slog.Bool("gate_met", report.GateMet))
	return report, nil
}
