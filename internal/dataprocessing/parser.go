package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// Recorder receives ingestion measurements.
type Recorder interface {
	RecordLoad(read, admitted, droppedBadDate, droppedBadMeasure int, elapsed time.Duration)
	RecordProfileFailure(profile string)
}

type nopRecorder struct{}

func (nopRecorder) RecordLoad(int, int, int, int, time.Duration) {}
func (nopRecorder) RecordProfileFailure(string)                  {}

// Loader turns a raw sales source into a canonical Table.
type Loader struct {
	profiles []FormatProfile
	rules    []RenameRule
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithProfiles replaces the format profiles tried against a source.
func WithProfiles(profiles []FormatProfile) LoaderOption {
	return func(l *Loader) {
		if len(profiles) > 0 {
			l.profiles = profiles
		}
	}
}

// WithRenameRules replaces the header rename rules.
func WithRenameRules(rules []RenameRule) LoaderOption {
	return func(l *Loader) {
		if rules != nil {
			l.rules = rules
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) LoaderOption {
	return func(l *Loader) {
		if r != nil {
			l.recorder = r
		}
	}
}

// NewLoader creates a Loader with the default profiles and rename rules.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		profiles: DefaultProfiles(),
		rules:    DefaultRenameRules(),
		logger:   slog.Default(),
		recorder: nopRecorder{},
		tracer:   otel.Tracer("salespulse"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads a sales source with the default loader configuration.
func Load(ctx context.Context, r io.Reader, opts ...LoaderOption) (*Table, error) {
	return NewLoader(opts...).Load(ctx, r)
}

// LoadFile reads a sales source file with the default loader configuration.
func LoadFile(ctx context.Context, path string, opts ...LoaderOption) (*Table, error) {
	return NewLoader(opts...).LoadFile(ctx, path)
}

// LoadFile opens path and loads it.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewSourceUnreadableError(path, err)
	}
	defer f.Close()

	return l.load(ctx, f, path)
}

// Load reads r and returns the canonical table. Profiles are tried in order
// and the first that parses wins. When none does, the returned error is of
// type SOURCE_UNREADABLE and wraps the last profile failure.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Table, error) {
	return l.load(ctx, r, "stream")
}

func (l *Loader) load(ctx context.Context, r io.Reader, source string) (*Table, error) {
	ctx, span := l.tracer.Start(ctx, "ingest.load", trace.WithAttributes(attribute.String("source", source)))
	defer span.End()

	start := time.Now()

	raw, err := io.ReadAll(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, apierrors.NewSourceUnreadableError(source, err)
	}

	var lastErr error
	for _, profile := range l.profiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := l.parseWithProfile(raw, profile)
		if err != nil {
			lastErr = fmt.Errorf("profile %s: %w", profile.Name, err)
			l.recorder.RecordProfileFailure(profile.Name)
			l.logger.DebugContext(ctx, "format profile rejected source",
				slog.String("source", source),
				slog.String("profile", profile.Name),
				slog.String("error", err.Error()))
			continue
		}

		stats := table.stats
		l.recorder.RecordLoad(stats.RowsRead, stats.RowsAdmitted, stats.DroppedBadDate, stats.DroppedBadMeasure, time.Since(start))
		span.SetAttributes(
			attribute.String("profile", profile.Name),
			attribute.Int("rows_read", stats.RowsRead),
			attribute.Int("rows_admitted", stats.RowsAdmitted),
		)
		l.logger.InfoContext(ctx, "sales source loaded",
			slog.String("source", source),
			slog.String("profile", profile.Name),
			slog.Int("rows_read", stats.RowsRead),
			slog.Int("rows_admitted", stats.RowsAdmitted),
			slog.Int("dropped_bad_date", stats.DroppedBadDate),
			slog.Int("dropped_bad_measure", stats.DroppedBadMeasure),
			slog.Duration("elapsed", time.Since(start)))
		return table, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no format profiles configured")
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "source unreadable")
	l.logger.ErrorContext(ctx, "no format profile could parse source",
		slog.String("source", source),
		slog.String("error", lastErr.Error()))
	return nil, apierrors.NewSourceUnreadableError(source, lastErr)
}

// parseWithProfile decodes and parses raw as CSV under profile. Any error
// rejects the profile as a whole.
func (l *Loader) parseWithProfile(raw []byte, profile FormatProfile) (*Table, error) {
	text, err := profile.decode(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = profile.Delimiter
	reader.FieldsPerRecord = -1
	// A stray quote inside an unquoted field is kept as a literal character.
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("source is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := reconcileHeader(header, l.rules)
	if err != nil {
		return nil, err
	}

	stats := LoadStats{Profile: profile.Name}
	records := make([]domain.SalesRecord, 0, 256)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}
		if len(row) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d has %d fields, header has %d", line, len(row), len(header))
		}
		stats.RowsRead++

		rec, reason := buildRecord(row, columns, profile.DecimalSeparator)
		switch reason {
		case dropBadDate:
			stats.DroppedBadDate++
			continue
		case dropBadMeasure:
			stats.DroppedBadMeasure++
			continue
		}
		records = append(records, rec)
	}

	sortByDate(records)
	stats.RowsAdmitted = len(records)
	return newTableOwned(records, stats), nil
}

type dropReason int

const (
	admitted dropReason = iota
	dropBadDate
	dropBadMeasure
)

// buildRecord normalizes one data row. Rows with an unparsable date or a
// missing required measure are rejected; dimension gaps are kept as "".
func buildRecord(row []string, cols columnIndex, decimalSep rune) (domain.SalesRecord, dropReason) {
	date, ok := parseDate(cols.field(row, ColDate))
	if !ok {
		return domain.SalesRecord{}, dropBadDate
	}

	total := parseDecimal(cols.field(row, ColTotal), decimalSep)
	grossIncome := parseDecimal(cols.field(row, ColGrossIncome), decimalSep)
	rating := parseDecimal(cols.field(row, ColRating), decimalSep)
	quantity, quantityOK := parseQuantity(cols.field(row, ColQuantity), decimalSep)
	if !total.Valid || !grossIncome.Valid || !rating.Valid || !quantityOK {
		return domain.SalesRecord{}, dropBadMeasure
	}

	return domain.SalesRecord{
		InvoiceID:      cols.field(row, ColInvoiceID),
		Branch:         cols.field(row, ColBranch),
		City:           cols.field(row, ColCity),
		CustomerType:   cols.field(row, ColCustomerType),
		CustomerName:   cols.field(row, ColCustomerName),
		Gender:         cols.field(row, ColGender),
		ProductLine:    cols.field(row, ColProductLine),
		UnitPrice:      parseDecimal(cols.field(row, ColUnitPrice), decimalSep),
		Quantity:       quantity,
		Tax:            parseDecimal(cols.field(row, ColTax), decimalSep),
		Total:          total.Decimal,
		Date:           date,
		Time:           cols.field(row, ColTime),
		Payment:        cols.field(row, ColPayment),
		COGS:           parseDecimal(cols.field(row, ColCOGS), decimalSep),
		GrossMarginPct: parseDecimal(cols.field(row, ColGrossMarginPct), decimalSep),
		GrossIncome:    grossIncome.Decimal,
		Rating:         rating.Decimal,
		Period:         date.Format(domain.PeriodLayout),
	}, admitted
}
