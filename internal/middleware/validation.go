package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/metrics"
)

// Query parameters understood by the selection validator. Each may repeat.
// Only month also accepts comma separated values, since city and product
// line names may themselves contain commas.
const (
	ParamMonth       = "month"
	ParamCity        = "city"
	ParamProductLine = "product_line"
)

const maxSelectionValues = 64

type selectionKey struct{}

// selectionQuery is the validated shape of the filter query parameters.
type selectionQuery struct {
	Months       []string `json:"month" validate:"max=64,dive,datetime=2006-01"`
	Cities       []string `json:"city" validate:"max=64,dive,min=1,max=128"`
	ProductLines []string `json:"product_line" validate:"max=64,dive,min=1,max=128"`
}

// QueryValidator parses and validates dashboard filter parameters.
type QueryValidator struct {
	validator    *validator.Validate
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewQueryValidator creates a query validator reporting failures through errorHandler.
func NewQueryValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QueryValidator {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator:    v,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "query_validator")),
	}
}

// ParseSelection reads the month, city and product_line parameters.
// Values are trimmed, blanks dropped and the result validated.
func (v *QueryValidator) ParseSelection(query url.Values) (metrics.Selection, error) {
	q := selectionQuery{
		Months:       queryValues(query, ParamMonth, true),
		Cities:       queryValues(query, ParamCity, false),
		ProductLines: queryValues(query, ParamProductLine, false),
	}

	if err := v.validator.Struct(q); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return metrics.Selection{}, apierrors.ErrInvalidParameter
		}
		details := make([]apierrors.ValidationError, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			details = append(details, apierrors.ValidationError{
				Field:   fe.Field(),
				Message: formatValidationError(fe),
			})
		}
		return metrics.Selection{}, apierrors.NewWithDetails(http.StatusBadRequest,
			"VALIDATION_FAILED", "Request validation failed", details)
	}

	return metrics.Selection{Months: q.Months, Cities: q.Cities, ProductLines: q.ProductLines}, nil
}

// Selection validates the filter parameters and stores the parsed
// selection in the request context.
func (v *QueryValidator) Selection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sel, err := v.ParseSelection(r.URL.Query())
		if err != nil {
			v.logger.DebugContext(r.Context(), "invalid selection",
				slog.String("query", r.URL.RawQuery),
				slog.String("error", err.Error()))
			v.errorHandler.HandleError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), selectionKey{}, sel)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SelectionFromContext returns the selection stored by Selection.
func SelectionFromContext(ctx context.Context) metrics.Selection {
	sel, _ := ctx.Value(selectionKey{}).(metrics.Selection)
	return sel
}

func queryValues(query url.Values, param string, splitCommas bool) []string {
	var out []string
	for _, raw := range query[param] {
		parts := []string{raw}
		if splitCommas {
			parts = strings.Split(raw, ",")
		}
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func formatValidationError(fe validator.FieldError) string {
	field := strings.SplitN(fe.Field(), "[", 2)[0]
	switch fe.Tag() {
	case "datetime":
		return fmt.Sprintf("%s must use the YYYY-MM format", field)
	case "min":
		return fmt.Sprintf("%s values must not be empty", field)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s accepts at most %d values", field, maxSelectionValues)
		}
		return fmt.Sprintf("%s values must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
