package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Table is an ordered, read-only sequence of transactions.
// The zero value is an empty table.
type Table struct {
	rows []Transaction
}

// NewTable copies rows into a new table.
func NewTable(rows []Transaction) *Table {
	return &Table{rows: append([]Transaction(nil), rows...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// At returns row i.
func (t *Table) At(i int) Transaction {
	return t.rows[i]
}

// Rows returns a copy of the rows in table order.
func (t *Table) Rows() []Transaction {
	if t == nil {
		return nil
	}
	return append([]Transaction(nil), t.rows...)
}

// Select returns a new table with the rows for which keep returns true,
// in their original order.
func (t *Table) Select(keep func(Transaction) bool) *Table {
	out := &Table{}
	if t == nil {
		return out
	}
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// SortedByDateTimeDesc returns the rows newest first. Rows with equal
// timestamps keep their table order.
func (t *Table) SortedByDateTimeDesc() []Transaction {
	rows := t.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DateTime.After(rows[j].DateTime)
	})
	return rows
}

// TotalAmount sums Amount over every row.
func (t *Table) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	if t == nil {
		return total
	}
	for _, r := range t.rows {
		total = total.Add(r.Amount)
	}
	return total
}
