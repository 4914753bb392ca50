package filter

import (
	"sort"

	"github.com/shopspring/decimal"

	"upidash/internal/core"
)

// Options describes the unfiltered table for seeding the controls.
type Options struct {
	Rows       int             `json:"rows"`
	Types      []string        `json:"types"`
	Categories []string        `json:"categories"`
	Months     []string        `json:"months"`
	AmountMin  decimal.Decimal `json:"amount_min"`
	AmountMax  decimal.Decimal `json:"amount_max"`
}

// OptionsFor collects distinct types and categories in first-seen order,
// distinct months sorted, and amount bounds widened to whole units so the
// default range covers every row.
func OptionsFor(t *core.Table) Options {
	opts := Options{
		Types:      []string{},
		Categories: []string{},
		Months:     []string{},
		AmountMin:  decimal.Zero,
		AmountMax:  decimal.Zero,
	}
	if t.Len() == 0 {
		return opts
	}
	opts.Rows = t.Len()

	seenType, seenCat, seenMonth := Set{}, Set{}, Set{}
	lo, hi := t.At(0).Amount, t.At(0).Amount
	for _, tx := range t.Rows() {
		if !seenType.Has(tx.Type) {
			seenType[tx.Type] = struct{}{}
			opts.Types = append(opts.Types, tx.Type)
		}
		if !seenCat.Has(tx.Category) {
			seenCat[tx.Category] = struct{}{}
			opts.Categories = append(opts.Categories, tx.Category)
		}
		if !seenMonth.Has(tx.Month) {
			seenMonth[tx.Month] = struct{}{}
			opts.Months = append(opts.Months, tx.Month)
		}
		if tx.Amount.LessThan(lo) {
			lo = tx.Amount
		}
		if tx.Amount.GreaterThan(hi) {
			hi = tx.Amount
		}
	}
	sort.Strings(opts.Months)
	opts.AmountMin = lo.Floor()
	opts.AmountMax = hi.Ceil()
	return opts
}

// DefaultCriteria selects everything in opts over the full amount range.
func DefaultCriteria(opts Options) Criteria {
	return Criteria{
		Amount:     AmountRange{Min: opts.AmountMin, Max: opts.AmountMax},
		Types:      NewSet(opts.Types...),
		Categories: NewSet(opts.Categories...),
		Months:     NewSet(opts.Months...),
	}
}
