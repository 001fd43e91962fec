package dataprocessing

import (
	"fmt"
	"strings"

	"salespulse/internal/config"
)

// Canonical column names.
const (
	ColInvoiceID      = "Invoice ID"
	ColBranch         = "Branch"
	ColCity           = "City"
	ColCustomerType   = "Customer type"
	ColCustomerName   = "Customer Name"
	ColGender         = "Gender"
	ColProductLine    = "Product line"
	ColUnitPrice      = "Unit price"
	ColQuantity       = "Quantity"
	ColTax            = "Tax 5%"
	ColTotal          = "Total"
	ColDate           = "Date"
	ColTime           = "Time"
	ColPayment        = "Payment"
	ColCOGS           = "cogs"
	ColGrossMarginPct = "gross margin percentage"
	ColGrossIncome    = "Gross income"
	ColRating         = "Rating"
)

// requiredColumns must be present after reconciliation for a profile to be accepted.
var requiredColumns = []string{ColDate, ColTotal, ColGrossIncome, ColQuantity, ColRating}

// RenameRule maps a legacy or alternate header spelling onto a canonical name.
type RenameRule struct {
	From string
	To   string
}

// DefaultRenameRules returns the known historical header spellings.
func DefaultRenameRules() []RenameRule {
	return []RenameRule{
		{From: "Costumer type", To: ColCustomerType},
		{From: "gross income", To: ColGrossIncome},
		{From: "unit price", To: ColUnitPrice},
		{From: "Unit Price", To: ColUnitPrice},
		{From: "Customer name", To: ColCustomerName},
	}
}

// RenameRulesFromConfig appends the configured rules to the defaults.
func RenameRulesFromConfig(cfg config.IngestConfig) []RenameRule {
	rules := DefaultRenameRules()
	for _, rc := range cfg.RenameRules {
		rules = append(rules, RenameRule{From: strings.TrimSpace(rc.From), To: strings.TrimSpace(rc.To)})
	}
	return rules
}

// isAnonymousColumn reports leftover index columns from previous exports.
func isAnonymousColumn(name string) bool {
	return name == "" || strings.HasPrefix(name, "Unnamed:")
}

// columnIndex maps canonical column names to field positions.
type columnIndex map[string]int

// reconcileHeader applies rename rules in order and drops anonymous columns.
// When two headers resolve to the same name the first one wins.
func reconcileHeader(header []string, rules []RenameRule) (columnIndex, error) {
	index := make(columnIndex, len(header))
	for pos, raw := range header {
		name := strings.TrimSpace(raw)
		if isAnonymousColumn(name) {
			continue
		}
		for _, rule := range rules {
			if name == rule.From {
				name = rule.To
				break
			}
		}
		if _, exists := index[name]; !exists {
			index[name] = pos
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header is missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// field returns the trimmed value of a canonical column in row, or "" when absent.
func (c columnIndex) field(row []string, name string) string {
	pos, ok := c[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}
