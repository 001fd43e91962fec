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
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/services"
	"salespulse/internal/validation"
	"salespulse/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run validates the data contracts and returns 1 when the quality gate fails.
func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("quality", flag.ContinueOnError)
	showVersion := flags.Bool("version", false, "print version information and exit")
	source := flags.String("source", "", "sales source file (overrides SALES_PATHS_SOURCE_FILE)")
	outDir := flags.String("out", "", "artifacts directory (overrides SALES_PATHS_ARTIFACTS_DIR)")
	minPassRate := flags.Float64("min-pass-rate", -1, "minimum pass rate in percent (overrides SALES_QUALITY_MIN_PASS_RATE)")
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
	if *minPassRate >= 0 {
		cfg.Quality.MinPassRate = *minPassRate
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

	validator := validation.NewContractValidator(rt.Logger, validation.WithMinPassRate(cfg.Quality.MinPassRate))
	quality := services.NewQualityService(validator, cfg.Paths.ArtifactsDir, rt.Metrics, rt.Logger)

	related := map[string]string{}
	if path := cfg.ArtifactPath(exporter.MonthlySummaryCSV); fileExists(path) {
		related[exporter.MonthlySummaryCSV] = path
	}

	report, err := quality.Run(ctx, table, related)
	if err != nil {
		rt.Logger.Error("Failed to write quality report", slog.String("error", err.Error()))
		return 1
	}

	fmt.Fprintf(stdout, "Quality gate: %d/%d checks passed (%.1f%%), risk %s\n",
		report.Passed, report.Total, report.PassRate, report.RiskLevel)
	for _, check := range report.Checks {
		fmt.Fprintf(stdout, "  %-32s %s\n", check.Name, check.Status)
	}
	if !report.GateMet {
		fmt.Fprintln(stdout, "Quality gate FAILED")
		return 1
	}
	fmt.Fprintln(stdout, "Quality gate PASSED")
	return 0
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
