package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"salespulse/internal/validation"
)

// QualityReport is the serialized form of a contract run.
type QualityReport struct {
	Summary   QualitySummary    `json:"summary"`
	Checks    []QualityCheck    `json:"checks"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// QualitySummary is the headline of a quality report.
type QualitySummary struct {
	Total           int                  `json:"total"`
	Passed          int                  `json:"passed"`
	Failed          int                  `json:"failed"`
	Success         bool                 `json:"success"`
	PassRate        float64              `json:"pass_rate"`
	QualityGate     QualityGate          `json:"quality_gate"`
	RiskLevel       validation.RiskLevel `json:"risk_level"`
	RowsChecked     int                  `json:"rows_checked"`
	GeneratedAtUTC  string               `json:"generated_at_utc"`
	GeneratedAtUnix int64                `json:"generated_at_unix"`
}

// QualityGate records the threshold and whether it was met.
type QualityGate struct {
	MinPassRate float64 `json:"min_pass_rate"`
	Met         bool    `json:"met"`
}

// QualityCheck is one row of the report.
type QualityCheck struct {
	Check           string   `json:"check"`
	Status          string   `json:"status"`
	Violations      int      `json:"violations"`
	Samples         []string `json:"samples,omitempty"`
	DurationSeconds float64  `json:"duration_seconds"`
	Purpose         string   `json:"purpose"`
}

// NewQualityReport converts a contract report; artifacts maps labels to paths.
func NewQualityReport(report validation.ContractReport, artifacts map[string]string) QualityReport {
	checks := make([]QualityCheck, 0, len(report.Checks))
	for _, c := range report.Checks {
		checks = append(checks, QualityCheck{
			Check:           c.Name,
			Status:          string(c.Status),
			Violations:      c.Violations,
			Samples:         c.Samples,
			DurationSeconds: roundTo(c.Duration.Seconds(), 4),
			Purpose:         c.Purpose,
		})
	}

	return QualityReport{
		Summary: QualitySummary{
			Total:    report.Total,
			Passed:   report.Passed,
			Failed:   report.Failed,
			Success:  report.GateMet,
			PassRate: roundTo(report.PassRate, 2),
			QualityGate: QualityGate{
				MinPassRate: report.MinPassRate,
				Met:         report.GateMet,
			},
			RiskLevel:       report.RiskLevel,
			RowsChecked:     report.RowsChecked,
			GeneratedAtUTC:  report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
			GeneratedAtUnix: report.GeneratedAt.Unix(),
		},
		Checks:    checks,
		Artifacts: artifacts,
	}
}

var qualityHTML = template.Must(template.New("quality").Funcs(template.FuncMap{
	"lower": strings.ToLower,
	"secs":  func(f float64) string { return fmt.Sprintf("%.4fs", f) },
	"pct":   func(f float64) string { return fmt.Sprintf("%.2f%%", f) },
}).Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Quality Report</title>
  <style>
    body { margin: 0; font-family: "Segoe UI", "Helvetica Neue", Arial, sans-serif; color: #0f172a; background: #f3f7fb; }
    .container { max-width: 1080px; margin: 0 auto; padding: 28px 18px 36px; }
    .hero { background: linear-gradient(130deg, #0b3b66, #0f172a 60%); color: #fff; border-radius: 18px; padding: 22px; }
    .badge { display: inline-block; border-radius: 999px; padding: 8px 14px; font-weight: 700; }
    .badge.met { background: #0f766e; }
    .badge.missed { background: #b91c1c; }
    .summary { margin-top: 16px; display: grid; grid-template-columns: repeat(auto-fit, minmax(140px, 1fr)); gap: 12px; }
    .card { background: #fff; border: 1px solid #dbe3ef; border-radius: 14px; padding: 14px; }
    .label { font-size: 11px; text-transform: uppercase; letter-spacing: 0.08em; color: #475569; }
    .value { margin-top: 6px; font-size: 28px; font-weight: 800; }
    table { width: 100%; margin-top: 16px; border-collapse: collapse; background: #fff; }
    th, td { text-align: left; padding: 10px; border-bottom: 1px solid #e2e8f0; }
    .purpose { font-size: 12px; color: #475569; }
    .pill { border-radius: 999px; padding: 3px 10px; font-size: 12px; font-weight: 700; }
    .pill.passed { background: #dcfce7; color: #166534; }
    .pill.failed { background: #fee2e2; color: #991b1b; }
  </style>
</head>
<body>
<div class="container">
  <div class="hero">
    <h1>Sales Data Quality Report</h1>
    <span class="badge {{if .Summary.Success}}met{{else}}missed{{end}}">{{if .Summary.Success}}GATE MET{{else}}GATE MISSED{{end}}</span>
    <p>Generated {{.Summary.GeneratedAtUTC}} over {{.Summary.RowsChecked}} rows.</p>
  </div>
  <div class="summary">
    <div class="card"><div class="label">Checks</div><div class="value">{{.Summary.Total}}</div></div>
    <div class="card"><div class="label">Passed</div><div class="value">{{.Summary.Passed}}</div></div>
    <div class="card"><div class="label">Failed</div><div class="value">{{.Summary.Failed}}</div></div>
    <div class="card"><div class="label">Pass rate</div><div class="value">{{pct .Summary.PassRate}}</div></div>
    <div class="card"><div class="label">Minimum</div><div class="value">{{pct .Summary.QualityGate.MinPassRate}}</div></div>
    <div class="card"><div class="label">Risk</div><div class="value">{{.Summary.RiskLevel}}</div></div>
  </div>
  <table>
    <thead><tr><th>Check</th><th>Status</th><th>Violations</th><th>Duration</th></tr></thead>
    <tbody>
    {{- range .Checks}}
      <tr>
        <td><code>{{.Check}}</code><div class="purpose">{{.Purpose}}</div></td>
        <td><span class="pill {{lower .Status}}">{{.Status}}</span></td>
        <td>{{.Violations}}{{if .Samples}} <span class="purpose">e.g. {{range $i, $s := .Samples}}{{if $i}}, {{end}}{{$s}}{{end}}</span>{{end}}</td>
        <td>{{secs .DurationSeconds}}</td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  {{- if .Artifacts}}
  <h2>Artifacts</h2>
  <ul>
  {{- range $label, $path := .Artifacts}}
    <li>{{$label}}: <code>{{$path}}</code></li>
  {{- end}}
  </ul>
  {{- end}}
</div>
</body>
</html>
`))

// QualityReportWriter writes quality reports as JSON and HTML
type QualityReportWriter struct {
	logger *slog.Logger
}

// NewQualityReportWriter creates a quality report writer
func NewQualityReportWriter(logger *slog.Logger) *QualityReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QualityReportWriter{logger: logger}
}

// WriteJSON writes the report as indented JSON
func (w *QualityReportWriter) WriteJSON(ctx context.Context, report QualityReport, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode quality report: %w", err)
	}
	if err := writeFile(outputPath, append(data, '\n')); err != nil {
		return err
	}
	w.logger.Info("Quality report written", slog.String("file_path", outputPath))
	return nil
}

// WriteHTML renders the report as a standalone HTML page
func (w *QualityReportWriter) WriteHTML(ctx context.Context, report QualityReport, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := qualityHTML.Execute(&buf, report); err != nil {
		return fmt.Errorf("failed to render quality report: %w", err)
	}
	if err := writeFile(outputPath, buf.Bytes()); err != nil {
		return err
	}
	w.logger.Info("Quality report written", slog.String("file_path", outputPath))
	return nil
}

func roundTo(f float64, places int32) float64 {
	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}
