package http

import (
	"net/url"
	"strings"

	"upidash/internal/filter"
)

// Query parameter names understood by every dashboard endpoint.
const (
	ParamApplied   = "applied"
	ParamType      = "type"
	ParamCategory  = "category"
	ParamMonth     = "month"
	ParamAmountMin = "amount_min"
	ParamAmountMax = "amount_max"
)

var selectionParams = []string{ParamType, ParamCategory, ParamMonth, ParamAmountMin, ParamAmountMax}

// ParseSelection reads the filter controls from query. The selection is
// explicit when applied is truthy or any filter parameter is present;
// otherwise every value is selected.
func ParseSelection(query url.Values) filter.Selection {
	sel := filter.Selection{
		Applied:    isTruthy(query.Get(ParamApplied)),
		Types:      sanitizeAll(query[ParamType]),
		Categories: sanitizeAll(query[ParamCategory]),
		Months:     sanitizeAll(query[ParamMonth]),
		AmountMin:  sanitizeInput(query.Get(ParamAmountMin)),
		AmountMax:  sanitizeInput(query.Get(ParamAmountMax)),
	}
	if !sel.Applied {
		for _, p := range selectionParams {
			if _, ok := query[p]; ok {
				sel.Applied = true
				break
			}
		}
	}
	return sel
}

// EncodeCriteria renders c back into query form so links (export, bookmarks)
// reproduce the same view.
func EncodeCriteria(c filter.Criteria) url.Values {
	q := url.Values{}
	q.Set(ParamApplied, "1")
	q[ParamType] = c.Types.Values()
	q[ParamCategory] = c.Categories.Values()
	q[ParamMonth] = c.Months.Values()
	q.Set(ParamAmountMin, c.Amount.Min.String())
	q.Set(ParamAmountMax, c.Amount.Max.String())
	return q
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// sanitizeInput trims whitespace and drops control characters other than
// tab, newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func sanitizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, sanitizeInput(v))
	}
	return out
}
