// Package filter narrows a transaction table by amount range and by
// type, category and month membership.
package filter

import (
	"sort"

	"github.com/shopspring/decimal"

	"upidash/internal/core"
)

// Set is a string membership set. A nil or empty Set contains nothing.
type Set map[string]struct{}

func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Values returns the members sorted.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// AmountRange is an inclusive [Min, Max] interval.
type AmountRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (r AmountRange) Contains(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(r.Min) && d.LessThanOrEqual(r.Max)
}

// Empty reports whether no amount can satisfy the range.
func (r AmountRange) Empty() bool {
	return r.Min.GreaterThan(r.Max)
}

// Criteria holds the four conjunctive predicates.
type Criteria struct {
	Amount     AmountRange
	Types      Set
	Categories Set
	Months     Set
}

// Match reports whether tx satisfies every predicate.
func (c Criteria) Match(tx core.Transaction) bool {
	return c.Amount.Contains(tx.Amount) &&
		c.Types.Has(tx.Type) &&
		c.Categories.Has(tx.Category) &&
		c.Months.Has(tx.Month)
}

// Apply returns the rows of t that match c, in table order. t is not modified.
func Apply(t *core.Table, c Criteria) *core.Table {
	return t.Select(c.Match)
}
