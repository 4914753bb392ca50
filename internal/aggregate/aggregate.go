// Package aggregate groups and sums transaction tables for charting.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"upidash/internal/core"
)

// DefaultTopMerchants is the chart size used when none is configured.
const DefaultTopMerchants = 10

// groupSum sums amounts per key, returning groups in first-seen order.
func groupSum(t *core.Table, key func(core.Transaction) string) []core.Total {
	index := make(map[string]int)
	var out []core.Total
	for i := 0; i < t.Len(); i++ {
		tx := t.At(i)
		k := key(tx)
		pos, ok := index[k]
		if !ok {
			pos = len(out)
			index[k] = pos
			out = append(out, core.Total{Key: k, Amount: decimal.Zero})
		}
		out[pos].Amount = out[pos].Amount.Add(tx.Amount)
	}
	if out == nil {
		out = []core.Total{}
	}
	return out
}

func sortByKey(totals []core.Total) []core.Total {
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Key < totals[j].Key
	})
	return totals
}

// MonthlySpend sums amounts per YYYY-MM month, ordered by month.
func MonthlySpend(t *core.Table) []core.Total {
	return sortByKey(groupSum(t, func(tx core.Transaction) string { return tx.Month }))
}

// CategorySpend sums amounts per category, ordered by category name.
func CategorySpend(t *core.Table) []core.Total {
	return sortByKey(groupSum(t, func(tx core.Transaction) string { return tx.Category }))
}

// TopMerchants returns at most k merchants by total spend, largest first.
// Equal totals keep the order in which the merchants first appear.
func TopMerchants(t *core.Table, k int) []core.Total {
	if k <= 0 {
		return []core.Total{}
	}
	totals := groupSum(t, func(tx core.Transaction) string { return tx.Merchant })
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount.GreaterThan(totals[j].Amount)
	})
	if len(totals) > k {
		totals = totals[:k]
	}
	return totals
}

// Summarize returns the row count and total amount of t.
func Summarize(t *core.Table) core.Summary {
	return core.Summary{
		RowCount:    t.Len(),
		TotalAmount: t.TotalAmount(),
	}
}

// Sum adds the amounts of totals.
func Sum(totals []core.Total) decimal.Decimal {
	sum := decimal.Zero
	for _, tot := range totals {
		sum = sum.Add(tot.Amount)
	}
	return sum
}
