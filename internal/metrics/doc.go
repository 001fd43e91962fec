// Package metrics computes KPIs and grouped rollups over a canonical sales
// table. Every function is pure: inputs are never modified and results are
// recomputed on each call.
//
// Measures are summed as decimals, so results do not depend on row order or
// on how a table was filtered.
package metrics
