package filter

import "fmt"

// Field names used in warnings. They match the query parameter names.
const (
	FieldAmount   = "amount"
	FieldType     = "type"
	FieldCategory = "category"
	FieldMonth    = "month"
)

// Warning is a non-fatal problem with the requested criteria. The
// criteria are never adjusted: an inverted range or an unknown value
// simply matches no rows.
type Warning struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// Validate checks c against the options of the unfiltered table.
func Validate(c Criteria, opts Options) []Warning {
	var warnings []Warning

	if c.Amount.Empty() {
		warnings = append(warnings, Warning{
			Field: FieldAmount,
			Value: fmt.Sprintf("%s..%s", c.Amount.Min, c.Amount.Max),
			Message: fmt.Sprintf("Minimum amount %s is greater than maximum %s; no rows can match",
				c.Amount.Min, c.Amount.Max),
		})
	}

	warnings = append(warnings, unknownValues(FieldType, c.Types, opts.Types)...)
	warnings = append(warnings, unknownValues(FieldCategory, c.Categories, opts.Categories)...)
	warnings = append(warnings, unknownValues(FieldMonth, c.Months, opts.Months)...)
	return warnings
}

func unknownValues(field string, selected Set, known []string) []Warning {
	knownSet := NewSet(known...)
	var out []Warning
	for _, v := range selected.Values() {
		if !knownSet.Has(v) {
			out = append(out, Warning{
				Field:   field,
				Value:   v,
				Message: fmt.Sprintf("Unknown %s %q matches no transactions", field, v),
			})
		}
	}
	return out
}
