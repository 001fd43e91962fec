package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"salespulse/internal/app"
	"salespulse/internal/config"
	"salespulse/pkg/contracts"
)

func main() {
	source := flag.String("source", "", "sales source file (overrides SALES_PATHS_SOURCE_FILE)")
	port := flag.Int("port", 0, "listen port (overrides SALES_SERVER_PORT)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *source != "" {
		cfg.Paths.SourceFile = *source
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	rt, err := app.NewRuntime(cfg)
	if err != nil {
		slog.Error("Failed to initialize runtime", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The server still starts without data so health checks can report it.
	table, err := rt.LoadTable(context.Background())
	if err != nil {
		rt.Logger.Error("Failed to load sales data",
			slog.String("source", cfg.Paths.SourceFile),
			slog.String("error", err.Error()))
		table = nil
	}

	if err := app.NewApplication(rt, table).Run(); err != nil {
		rt.Logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
