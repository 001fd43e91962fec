package metrics

import (
	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// Selection restricts a table by period, city and product line. An empty
// slice leaves that dimension unrestricted; the predicates are combined with AND.
type Selection struct {
	Months       []string `json:"months,omitempty"`
	Cities       []string `json:"cities,omitempty"`
	ProductLines []string `json:"product_lines,omitempty"`
}

// IsEmpty reports whether the selection restricts nothing.
func (s Selection) IsEmpty() bool {
	return len(s.Months) == 0 && len(s.Cities) == 0 && len(s.ProductLines) == 0
}

// Filter returns a new table holding the records matching sel.
func Filter(t *dataprocessing.Table, sel Selection) *dataprocessing.Table {
	if sel.IsEmpty() {
		return t.Clone()
	}

	months := toSet(sel.Months)
	cities := toSet(sel.Cities)
	productLines := toSet(sel.ProductLines)

	return t.Where(func(r domain.SalesRecord) bool {
		return matches(months, r.Period) && matches(cities, r.City) && matches(productLines, r.ProductLine)
	})
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func matches(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}
