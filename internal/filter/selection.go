package filter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Selection is raw control input before it is resolved against the
// options of a table. Without Applied the defaults are used and every
// other field is ignored.
type Selection struct {
	Applied    bool
	Types      []string
	Categories []string
	Months     []string
	AmountMin  string
	AmountMax  string
}

// Resolve turns s into criteria. Empty amount bounds fall back to the
// dataset bounds; unparseable ones do too, with a warning. Unknown values
// and inverted ranges are reported by Validate and kept as given.
func (s Selection) Resolve(opts Options) (Criteria, []Warning) {
	if !s.Applied {
		return DefaultCriteria(opts), nil
	}

	var warnings []Warning
	c := Criteria{
		Types:      NewSet(trimAll(s.Types)...),
		Categories: NewSet(trimAll(s.Categories)...),
		Months:     NewSet(trimAll(s.Months)...),
	}

	var w *Warning
	c.Amount.Min, w = parseBound("amount_min", s.AmountMin, opts.AmountMin)
	if w != nil {
		warnings = append(warnings, *w)
	}
	c.Amount.Max, w = parseBound("amount_max", s.AmountMax, opts.AmountMax)
	if w != nil {
		warnings = append(warnings, *w)
	}

	return c, append(warnings, Validate(c, opts)...)
}

func parseBound(name, raw string, fallback decimal.Decimal) (decimal.Decimal, *Warning) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback, &Warning{
			Field:   FieldAmount,
			Value:   raw,
			Message: fmt.Sprintf("Ignoring %s %q: not a number, using %s", name, raw, fallback),
		}
	}
	return d, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
