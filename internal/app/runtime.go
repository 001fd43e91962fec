package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/files"
	"salespulse/internal/infrastructure"
	"salespulse/internal/validation"
	"salespulse/pkg/contracts"
)

const (
	// Version is reported by the health endpoints and startup logs.
	Version = contracts.Version
	// AppName is the human readable application name.
	AppName = "SalesPulse"
)

// Runtime bundles the ambient dependencies every binary needs.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics
	Tracing *infrastructure.TracingProvider
}

// NewRuntime initializes logging, metrics and tracing from cfg.
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return newRuntime(cfg, logger)
}

func newRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	tracing, err := infrastructure.InitializeTracing(cfg.Telemetry, logger)
	if err != nil {
		return nil, apierrors.NewConfigError("failed to initialize tracing", err)
	}

	logger.Info("Runtime initialized",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("source_file", cfg.Paths.SourceFile),
		slog.String("artifacts_dir", cfg.Paths.ArtifactsDir))

	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
		Tracing: tracing,
	}, nil
}

// LoadTable validates and loads the configured source file using the
// configured rename rules and format profiles. A source naming a directory
// loads the most recently modified export inside it.
func (rt *Runtime) LoadTable(ctx context.Context) (*dataprocessing.Table, error) {
	path, err := files.ResolveSource(rt.Config.Paths.SourceFile)
	if err != nil {
		return nil, apierrors.NewSourceUnreadableError(rt.Config.Paths.SourceFile, err)
	}
	if path != rt.Config.Paths.SourceFile {
		rt.Logger.Info("Resolved sales source from directory",
			slog.String("directory", rt.Config.Paths.SourceFile),
			slog.String("file", path))
	}

	if err := validation.NewFileValidator(rt.Logger).ValidateSourceFile(path); err != nil {
		return nil, apierrors.NewSourceUnreadableError(path, err)
	}

	profiles, err := dataprocessing.ProfilesFromConfig(rt.Config.Ingest)
	if err != nil {
		return nil, apierrors.NewConfigError("invalid ingest profiles", err)
	}

	return dataprocessing.LoadFile(ctx, path,
		dataprocessing.WithProfiles(profiles),
		dataprocessing.WithRenameRules(dataprocessing.RenameRulesFromConfig(rt.Config.Ingest)),
		dataprocessing.WithLogger(rt.Logger),
		dataprocessing.WithRecorder(rt.Metrics),
	)
}

// Shutdown flushes traces and closes the log file.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	if rt.Tracing != nil {
		if err := rt.Tracing.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}
