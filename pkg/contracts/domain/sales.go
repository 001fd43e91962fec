package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord is one transaction line of the canonical sales table.
// Total, GrossIncome, Quantity and Rating are always present on records
// produced by ingestion; the remaining measures are optional.
type SalesRecord struct {
	InvoiceID      string              `json:"invoice_id"`
	Branch         string              `json:"branch"`
	City           string              `json:"city"`
	CustomerType   string              `json:"customer_type"`
	CustomerName   string              `json:"customer_name"`
	Gender         string              `json:"gender"`
	ProductLine    string              `json:"product_line"`
	UnitPrice      decimal.NullDecimal `json:"unit_price"`
	Quantity       int64               `json:"quantity"`
	Tax            decimal.NullDecimal `json:"tax"`
	Total          decimal.Decimal     `json:"total"`
	Date           time.Time           `json:"date"`
	Time           string              `json:"time,omitempty"`
	Payment        string              `json:"payment"`
	COGS           decimal.NullDecimal `json:"cogs"`
	GrossMarginPct decimal.NullDecimal `json:"gross_margin_percentage"`
	GrossIncome    decimal.Decimal     `json:"gross_income"`
	Rating         decimal.Decimal     `json:"rating"`

	// Period is the calendar year-month ("2006-01") of Date, set once at ingestion.
	Period string `json:"period"`
}

// PeriodLayout is the time layout of SalesRecord.Period.
const PeriodLayout = "2006-01"

// DayLayout is the key layout used by the day rollup.
const DayLayout = "2006-01-02"

// KPISet holds the executive KPIs of a (possibly filtered) sales table.
type KPISet struct {
	Revenue     float64 `json:"revenue"`
	Orders      int     `json:"orders"`
	AvgTicket   float64 `json:"avg_ticket"`
	AvgRating   float64 `json:"avg_rating"`
	GrossIncome float64 `json:"gross_income"`
}

// Dimension names a categorical attribute a rollup can group by.
type Dimension string

const (
	DimensionCity        Dimension = "city"
	DimensionProductLine Dimension = "product_line"
	DimensionPayment     Dimension = "payment"
	DimensionMonth       Dimension = "month"
	DimensionDay         Dimension = "day"
)

// Dimensions lists every supported rollup dimension.
func Dimensions() []Dimension {
	return []Dimension{DimensionCity, DimensionProductLine, DimensionPayment, DimensionMonth, DimensionDay}
}

// Chronological reports whether rollups over d are ordered by key instead of by total.
func (d Dimension) Chronological() bool {
	return d == DimensionMonth || d == DimensionDay
}

// ParseDimension converts a user supplied name into a Dimension.
func ParseDimension(s string) (Dimension, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "city":
		return DimensionCity, nil
	case "product_line", "productline", "product":
		return DimensionProductLine, nil
	case "payment", "payment_method":
		return DimensionPayment, nil
	case "month", "period":
		return DimensionMonth, nil
	case "day", "date":
		return DimensionDay, nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// RollupEntry is one (dimension value, summed total) pair.
type RollupEntry struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// MarshalJSON renders Total as a JSON number rather than a quoted string.
func (e RollupEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key   string      `json:"key"`
		Total json.Number `json:"total"`
	}{
		Key:   e.Key,
		Total: json.Number(e.Total.String()),
	})
}

// Rollup is an ordered grouped sum of the total measure.
type Rollup struct {
	Dimension Dimension     `json:"dimension"`
	Entries   []RollupEntry `json:"entries"`
}

// MonthlySummary aggregates one period of the sales table.
type MonthlySummary struct {
	Month       string  `json:"month"`
	Revenue     float64 `json:"revenue"`
	Orders      int     `json:"orders"`
	AvgRating   float64 `json:"avg_rating"`
	GrossIncome float64 `json:"gross_income"`
	AvgTicket   float64 `json:"avg_ticket"`
}

// Leader describes the top entry of a rollup and its share of revenue.
type Leader struct {
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	SharePct float64 `json:"share_pct"`
}

// SnapshotPeriod is the first and last period covered by a snapshot.
type SnapshotPeriod struct {
	StartMonth string `json:"start_month"`
	EndMonth   string `json:"end_month"`
}

// SnapshotKPIs are the rounded headline numbers of a business snapshot.
type SnapshotKPIs struct {
	Revenue          float64 `json:"revenue"`
	Orders           int     `json:"orders"`
	AvgTicket        float64 `json:"avg_ticket"`
	AvgRating        float64 `json:"avg_rating"`
	CashlessSharePct float64 `json:"cashless_share_pct"`
	GrowthPct        float64 `json:"growth_pct_first_to_last_month"`
}

// SnapshotLeaders names the top city and top product line.
type SnapshotLeaders struct {
	TopCity        Leader `json:"top_city"`
	TopProductLine Leader `json:"top_product_line"`
}

// BusinessSnapshot is the executive summary emitted by the report generator.
type BusinessSnapshot struct {
	Period      SnapshotPeriod  `json:"period"`
	KPIs        SnapshotKPIs    `json:"kpis"`
	Leaders     SnapshotLeaders `json:"leaders"`
	GeneratedAt time.Time       `json:"generated_at"`
}
