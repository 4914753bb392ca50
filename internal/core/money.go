package core

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders d with thousands separators and exactly two decimals,
// e.g. FormatCurrency(d, "₹") -> "₹1,234,567.89".
func FormatCurrency(d decimal.Decimal, symbol string) string {
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	whole, err := strconv.ParseInt(intPart, 10, 64)
	var grouped string
	if err != nil {
		// Beyond int64; fall back to the float formatter.
		grouped = humanize.FormatFloat("#,###.", d.Truncate(0).InexactFloat64())
	} else {
		grouped = humanize.Comma(whole)
	}
	s := symbol + grouped + "." + frac
	if neg {
		return "-" + s
	}
	return s
}

// Float converts an amount for chart payloads. Use decimals for arithmetic.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
