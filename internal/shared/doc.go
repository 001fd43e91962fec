// Package shared holds helpers used across salespulse packages.
//
// testutil provides the captured slog handler used for log assertions and
// the golden sales fixture shared by ingestion, metrics and service tests.
// Nothing here may import a salespulse package other than pkg/contracts, so
// any package's tests can depend on it.
package shared
