package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"salespulse/pkg/contracts/domain"
)

var snapshotMarkdown = template.Must(template.New("snapshot").Funcs(template.FuncMap{
	"money": formatMoney,
	"count": formatCount,
	"pct":   func(f float64) string { return fmt.Sprintf("%.2f", f) },
}).Parse(`## Executive Snapshot ({{.Period.StartMonth}} to {{.Period.EndMonth}})

- Revenue: {{money .KPIs.Revenue}}
- Orders: {{count .KPIs.Orders}}
- Average ticket: {{money .KPIs.AvgTicket}}
- Average rating: {{pct .KPIs.AvgRating}}/10
- Cashless share: {{pct .KPIs.CashlessSharePct}}%
- Revenue growth (first month vs last month): {{pct .KPIs.GrowthPct}}%
- Top city: {{.Leaders.TopCity.Name}} ({{pct .Leaders.TopCity.SharePct}}% of revenue)
- Top product line: {{.Leaders.TopProductLine.Name}} ({{pct .Leaders.TopProductLine.SharePct}}% of revenue)
`))

// SnapshotWriter writes the business snapshot as JSON and Markdown
type SnapshotWriter struct {
	logger *slog.Logger
}

// NewSnapshotWriter creates a snapshot writer
func NewSnapshotWriter(logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotWriter{logger: logger}
}

// WriteJSON writes the snapshot as indented JSON
func (w *SnapshotWriter) WriteJSON(ctx context.Context, snapshot domain.BusinessSnapshot, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return w.write(outputPath, append(data, '\n'))
}

// WriteMarkdown writes the executive summary for people
func (w *SnapshotWriter) WriteMarkdown(ctx context.Context, snapshot domain.BusinessSnapshot, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := snapshotMarkdown.Execute(&buf, snapshot); err != nil {
		return fmt.Errorf("failed to render snapshot: %w", err)
	}
	return w.write(outputPath, buf.Bytes())
}

func (w *SnapshotWriter) write(outputPath string, data []byte) error {
	if err := writeFile(outputPath, data); err != nil {
		return err
	}
	w.logger.Info("Snapshot written",
		slog.String("file_path", outputPath),
		slog.Int("bytes", len(data)))
	return nil
}

// writeFile creates the parent directory and writes data to path
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
