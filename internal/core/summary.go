package core

import "github.com/shopspring/decimal"

// Total is an amount aggregated under a group key (month, merchant or category).
type Total struct {
	Key    string
	Amount decimal.Decimal
}

// Summary holds the ungrouped statistics of a table.
type Summary struct {
	RowCount    int
	TotalAmount decimal.Decimal
}
