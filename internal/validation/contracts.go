package validation

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// CheckStatus is the outcome of one contract check.
type CheckStatus string

const (
	StatusPassed CheckStatus = "PASSED"
	StatusFailed CheckStatus = "FAILED"
)

// RiskLevel grades a failed quality gate.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Contract check names.
const (
	CheckDatasetNotEmpty    = "dataset_not_empty"
	CheckRequiredDimensions = "required_dimensions_present"
	CheckNumericRanges      = "numeric_ranges_are_valid"
	CheckDatesNotInFuture   = "dates_are_not_in_the_future"
	CheckSortedByDate       = "dates_are_sorted"
	CheckPeriodMatchesDate  = "period_matches_date"
)

const (
	maxViolationSamples = 5
	// below this pass rate a failed gate is high risk
	highRiskPassRate = 0.8
)

var checkPurposes = map[string]string{
	CheckDatasetNotEmpty:    "Confirms the source produced at least one admitted row.",
	CheckRequiredDimensions: "Confirms every row carries an invoice id, city, product line and payment method.",
	CheckNumericRanges:      "Confirms totals, quantities and gross income are positive and ratings stay within 0-10.",
	CheckDatesNotInFuture:   "Confirms transaction dates are realistic and not future-dated.",
	CheckSortedByDate:       "Confirms the table is ordered by date for trend analytics.",
	CheckPeriodMatchesDate:  "Confirms every period is the year-month of its transaction date.",
}

// recordContract is the validated view of one sales record.
type recordContract struct {
	InvoiceID   string    `json:"invoice_id" validate:"required"`
	City        string    `json:"city" validate:"required"`
	ProductLine string    `json:"product_line" validate:"required"`
	Payment     string    `json:"payment" validate:"required"`
	Total       float64   `json:"total" validate:"gt=0"`
	Quantity    int64     `json:"quantity" validate:"gt=0"`
	GrossIncome float64   `json:"gross_income" validate:"gt=0"`
	Rating      float64   `json:"rating" validate:"gte=0,lte=10"`
	Date        time.Time `json:"date" validate:"notfuture"`
}

// fieldChecks maps a validated field to the contract check it belongs to.
var fieldChecks = map[string]string{
	"invoice_id":   CheckRequiredDimensions,
	"city":         CheckRequiredDimensions,
	"product_line": CheckRequiredDimensions,
	"payment":      CheckRequiredDimensions,
	"total":        CheckNumericRanges,
	"quantity":     CheckNumericRanges,
	"gross_income": CheckNumericRanges,
	"rating":       CheckNumericRanges,
	"date":         CheckDatesNotInFuture,
}

// CheckResult is the outcome of one contract check.
type CheckResult struct {
	Name       string        `json:"name"`
	Purpose    string        `json:"purpose"`
	Status     CheckStatus   `json:"status"`
	Violations int           `json:"violations"`
	Samples    []string      `json:"samples,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// ContractReport summarizes all contract checks of a table.
type ContractReport struct {
	Checks      []CheckResult `json:"checks"`
	RowsChecked int           `json:"rows_checked"`
	Total       int           `json:"total"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	PassRate    float64       `json:"pass_rate"`
	MinPassRate float64       `json:"min_pass_rate"`
	GateMet     bool          `json:"gate_met"`
	RiskLevel   RiskLevel     `json:"risk_level"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// ContractValidator runs the business contracts against a canonical table.
type ContractValidator struct {
	validate    *validator.Validate
	logger      *slog.Logger
	now         func() time.Time
	minPassRate float64
}

// ContractOption configures a ContractValidator.
type ContractOption func(*ContractValidator)

// WithClock sets the processing-time source used by the future-date check.
func WithClock(now func() time.Time) ContractOption {
	return func(v *ContractValidator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithMinPassRate sets the pass rate, in percent, the quality gate requires.
func WithMinPassRate(rate float64) ContractOption {
	return func(v *ContractValidator) {
		v.minPassRate = rate
	}
}

// NewContractValidator creates a validator with the default gate of 100%.
func NewContractValidator(logger *slog.Logger, opts ...ContractOption) *ContractValidator {
	if logger == nil {
		logger = slog.Default()
	}
	cv := &ContractValidator{
		logger:      logger.With(slog.String("component", "contract_validator")),
		now:         time.Now,
		minPassRate: 100,
	}
	for _, opt := range opts {
		opt(cv)
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("notfuture", cv.isNotFuture)
	cv.validate = v

	return cv
}

// isNotFuture accepts dates up to and including the current UTC day.
func (cv *ContractValidator) isNotFuture(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	today := cv.now().UTC()
	endOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return date.Before(endOfToday)
}

// Validate runs every contract check against t.
func (cv *ContractValidator) Validate(ctx context.Context, t *dataprocessing.Table) ContractReport {
	results := map[string]*CheckResult{}
	order := []string{
		CheckDatasetNotEmpty,
		CheckRequiredDimensions,
		CheckNumericRanges,
		CheckDatesNotInFuture,
		CheckSortedByDate,
		CheckPeriodMatchesDate,
	}
	for _, name := range order {
		results[name] = &CheckResult{Name: name, Purpose: checkPurposes[name], Status: StatusPassed}
	}

	start := time.Now()
	if t.Len() == 0 {
		results[CheckDatasetNotEmpty].fail("")
	}
	results[CheckDatasetNotEmpty].Duration = time.Since(start)

	start = time.Now()
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		failed := cv.recordViolations(r)
		for check := range failed {
			results[check].fail(r.InvoiceID)
		}
	}
	recordDuration := time.Since(start)
	for _, name := range []string{CheckRequiredDimensions, CheckNumericRanges, CheckDatesNotInFuture} {
		results[name].Duration = recordDuration
	}

	start = time.Now()
	for i := 1; i < t.Len(); i++ {
		if t.At(i).Date.Before(t.At(i - 1).Date) {
			results[CheckSortedByDate].fail(t.At(i).InvoiceID)
		}
	}
	results[CheckSortedByDate].Duration = time.Since(start)

	start = time.Now()
	t.Each(func(r domain.SalesRecord) {
		if r.Period != r.Date.Format(domain.PeriodLayout) {
			results[CheckPeriodMatchesDate].fail(r.InvoiceID)
		}
	})
	results[CheckPeriodMatchesDate].Duration = time.Since(start)

	report := ContractReport{
		RowsChecked: t.Len(),
		MinPassRate: cv.minPassRate,
		GeneratedAt: cv.now().UTC(),
	}
	for _, name := range order {
		res := *results[name]
		report.Checks = append(report.Checks, res)
		report.Total++
		if res.Status == StatusPassed {
			report.Passed++
		} else {
			report.Failed++
		}
	}
	report.PassRate = float64(report.Passed) / float64(report.Total) * 100
	report.GateMet = report.Failed == 0 && report.PassRate >= cv.minPassRate
	report.RiskLevel = riskLevel(report.PassRate/100, report.Failed)

	level := slog.LevelInfo
	if !report.GateMet {
		level = slog.LevelWarn
	}
	cv.logger.Log(ctx, level, "contract checks completed",
		slog.Int("rows", report.RowsChecked),
		slog.Int("passed", report.Passed),
		slog.Int("failed", report.Failed),
		slog.Float64("pass_rate", report.PassRate),
		slog.Bool("gate_met", report.GateMet),
		slog.String("risk_level", string(report.RiskLevel)))

	return report
}

// recordViolations returns the set of checks r violates.
func (cv *ContractValidator) recordViolations(r domain.SalesRecord) map[string]struct{} {
	view := recordContract{
		InvoiceID:   r.InvoiceID,
		City:        r.City,
		ProductLine: r.ProductLine,
		Payment:     r.Payment,
		Total:       r.Total.InexactFloat64(),
		Quantity:    r.Quantity,
		GrossIncome: r.GrossIncome.InexactFloat64(),
		Rating:      r.Rating.InexactFloat64(),
		Date:        r.Date,
	}

	err := cv.validate.Struct(view)
	if err == nil {
		return nil
	}

	failed := make(map[string]struct{})
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			if check, ok := fieldChecks[fe.Field()]; ok {
				failed[check] = struct{}{}
			}
		}
	}
	return failed
}

func (c *CheckResult) fail(sample string) {
	c.Status = StatusFailed
	c.Violations++
	if sample != "" && len(c.Samples) < maxViolationSamples {
		c.Samples = append(c.Samples, sample)
	}
}

func riskLevel(passRate float64, failures int) RiskLevel {
	if failures > 0 {
		if passRate < highRiskPassRate {
			return RiskHigh
		}
		return RiskMedium
	}
	return RiskLow
}
