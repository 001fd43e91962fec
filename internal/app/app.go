package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salespulse/internal/dataprocessing"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/infrastructure"
	customMiddleware "salespulse/internal/middleware"
	"salespulse/internal/services"
	handlers "salespulse/internal/transport/http"
)

// Application is the dashboard API server.
type Application struct {
	Runtime   *Runtime
	Router    *chi.Mux
	Server    *http.Server
	Dashboard *services.DashboardService
	Health    *services.HealthService
	Logger    *slog.Logger
}

// NewApplication wires the dashboard services and router over table.
// A nil table yields a server whose data endpoints report 503.
func NewApplication(rt *Runtime, table *dataprocessing.Table) *Application {
	dashboard := services.NewDashboardService(table, rt.Config.Report.CashlessMethods, rt.Logger)
	a := &Application{
		Runtime:   rt,
		Dashboard: dashboard,
		Health:    services.NewHealthService(Version, dashboard, rt.Logger),
		Logger:    rt.Logger,
	}
	a.setupRouter()
	a.createServer()
	return a
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	cfg := a.Runtime.Config
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r := chi.NewRouter()
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// Ordering: RequestID, RealIP, tracing and metrics, logging, recovery.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.Observability(a.Runtime.Metrics, a.Logger))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))
	r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{AllowedOrigins: cfg.Server.AllowedOrigins}))

	r.Handle("/metrics", a.Runtime.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(cfg.Server.ReadTimeout))
		if cfg.Server.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				cfg.Server.RateLimit.RPS,
				cfg.Server.RateLimit.Burst,
				errorHandler,
				a.Logger,
			).Handler)
		}

		httpLogger := infrastructure.WithComponent(a.Logger, "http")
		healthHandler := handlers.NewHealthHandler(a.Health, httpLogger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)

		r.Mount("/", handlers.NewDashboardHandler(a.Dashboard, httpLogger, errorHandler).Routes())
	})

	a.Router = r
}

func (a *Application) createServer() {
	cfg := a.Runtime.Config.Server
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Start starts serving in the background. Listen failures cancel ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting dashboard server",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("address", a.Server.Addr),
		slog.Int("rows", a.Dashboard.Rows()))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop gracefully stops the server and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down dashboard server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Runtime.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err := a.Runtime.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down runtime", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Dashboard server stopped")
	return nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")
	return a.Stop(context.Background())
}
