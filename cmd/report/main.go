package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"salespulse/internal/app"
	"salespulse/internal/config"
	"salespulse/internal/infrastructure"
	"salespulse/internal/services"
	"salespulse/internal/validation"
	"salespulse/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run generates the report artifacts and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("report", flag.ContinueOnError)
	showVersion := flags.Bool("version", false, "print version information and exit")
	source := flags.String("source", "", "sales source file (overrides SALES_PATHS_SOURCE_FILE)")
	outDir := flags.String("out", "", "artifacts directory (overrides SALES_PATHS_ARTIFACTS_DIR)")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetVersionString())
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}
	if *source != "" {
		cfg.Paths.SourceFile = *source
	}
	if *outDir != "" {
		cfg.Paths.ArtifactsDir = *outDir
	}

	rt, err := app.NewRuntime(cfg)
	if err != nil {
		slog.Error("Failed to initialize runtime", slog.String("error", err.Error()))
		return 1
	}
	ctx := infrastructure.EnsureTraceID(context.Background())
	defer rt.Shutdown(ctx)

	if err := validation.NewFileValidator(rt.Logger).ValidateOutputDirectory(cfg.Paths.ArtifactsDir); err != nil {
		rt.Logger.Error("Artifacts directory is not usable", slog.String("error", err.Error()))
		return 1
	}

	table, err := rt.LoadTable(ctx)
	if err != nil {
		rt.Logger.Error("Failed to load sales data", slog.String("error", err.Error()))
		return 1
	}

	reports := services.NewReportService(services.ReportOptions{
		ArtifactsDir:    cfg.Paths.ArtifactsDir,
		CashlessMethods: cfg.Report.CashlessMethods,
		Workbook:        cfg.Report.Workbook,
		CleanExport:     cfg.Report.CleanExport,
		BOMPrefix:       cfg.Report.BOMPrefix,
	}, rt.Metrics, rt.Logger)

	result, err := reports.Generate(ctx, table)
	if err != nil {
		rt.Logger.Error("Failed to generate report", slog.String("error", err.Error()))
		return 1
	}

	stats := table.Stats()
	fmt.Fprintf(stdout, "Loaded %d of %d rows (%s)\n", stats.RowsAdmitted, stats.RowsRead, stats.Profile)
	for _, name := range result.ArtifactNames() {
		fmt.Fprintf(stdout, "Wrote %s\n", result.Artifacts[name])
	}
	return 0
}
