// Package app wires the salespulse binaries together.
//
// Runtime holds the ambient dependencies shared by every command: the
// configuration, the slog logger, the Prometheus metrics registry and the
// OpenTelemetry tracer provider. Runtime.LoadTable loads the configured
// sales source with the configured profiles and rename rules.
//
// Application is the dashboard API server built on a Runtime and a loaded
// table. Middleware order is
//
//	RequestID → RealIP → Observability → StructuredLogger → Recoverer
//
// followed by security headers, CORS and, under /api, a timeout and the
// optional rate limiter.
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM, then drains in-flight requests
// within Server.ShutdownTimeout and flushes pending spans.
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package never
// calls os.Exit, leaving the exit code to main.
package app
