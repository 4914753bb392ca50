package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upidash/internal/core"
	"upidash/internal/filter"
)

func tx(ts, amount, typ, category, merchant string) core.Transaction {
	dt, err := core.ParseTimestamp(ts)
	if err != nil {
		panic(err)
	}
	return core.NewTransaction(dt, dt, decimal.RequireFromString(amount), typ, category, merchant)
}

func sampleTable() *core.Table {
	return core.NewTable([]core.Transaction{
		tx("2024-03-01T08:00", "40", "P2M", "Bills", "Power Co"),
		tx("2024-01-05T10:00", "100", "P2P", "Food", "A"),
		tx("2024-02-10T11:00", "200.50", "P2M", "Shopping", "B"),
		tx("2024-01-15T12:00", "75", "P2M", "Food", "C"),
		tx("2024-02-20T09:00", "25", "P2P", "Bills", "A"),
		tx("2024-02-21T09:00", "125", "P2P", "Food", "D"),
	})
}

func keys(totals []core.Total) []string {
	out := make([]string, len(totals))
	for i, t := range totals {
		out[i] = t.Key
	}
	return out
}

func TestMonthlySpend(t *testing.T) {
	got := MonthlySpend(sampleTable())
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, keys(got))
	assert.Equal(t, "175", got[0].Amount.String())
	assert.Equal(t, "350.5", got[1].Amount.String())
	assert.Equal(t, "40", got[2].Amount.String())
}

func TestCategorySpend(t *testing.T) {
	got := CategorySpend(sampleTable())
	assert.Equal(t, []string{"Bills", "Food", "Shopping"}, keys(got))
	assert.Equal(t, "65", got[0].Amount.String())
	assert.Equal(t, "300", got[1].Amount.String())
}

func TestTopMerchants(t *testing.T) {
	table := sampleTable()

	// A and D tie at 125; A appears first.
	got := TopMerchants(table, 10)
	assert.Equal(t, []string{"B", "A", "D", "C", "Power Co"}, keys(got))

	got = TopMerchants(table, 2)
	assert.Equal(t, []string{"B", "A"}, keys(got))

	for k := 0; k <= 7; k++ {
		got := TopMerchants(table, k)
		assert.Len(t, got, min(k, 5), "k=%d", k)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Amount.GreaterThan(got[i-1].Amount), "k=%d not descending at %d", k, i)
		}
	}

	assert.Equal(t, []core.Total{}, TopMerchants(table, 0))
	assert.Empty(t, TopMerchants(table, -3))
}

func TestTotalsAreConserved(t *testing.T) {
	table := sampleTable()
	opts := filter.OptionsFor(table)

	c := filter.DefaultCriteria(opts)
	c.Types = filter.NewSet("P2P")

	for _, view := range []*core.Table{table, filter.Apply(table, c)} {
		total := view.TotalAmount()
		assert.True(t, total.Equal(Sum(MonthlySpend(view))))
		assert.True(t, total.Equal(Sum(CategorySpend(view))))
		assert.True(t, total.Equal(Sum(TopMerchants(view, view.Len()))))
	}
}

func TestScenario(t *testing.T) {
	table := core.NewTable([]core.Transaction{
		tx("2024-01-05T10:00", "100", "P2P", "Food", "A"),
		tx("2024-02-10T11:00", "200", "P2M", "Shopping", "B"),
	})
	filtered := filter.Apply(table, filter.Criteria{
		Amount:     filter.AmountRange{Min: decimal.Zero, Max: decimal.NewFromInt(150)},
		Types:      filter.NewSet("P2P"),
		Categories: filter.NewSet("Food"),
		Months:     filter.NewSet("2024-01"),
	})

	monthly := MonthlySpend(filtered)
	require.Len(t, monthly, 1)
	assert.Equal(t, "2024-01", monthly[0].Key)
	assert.True(t, decimal.NewFromInt(100).Equal(monthly[0].Amount))

	summary := Summarize(filtered)
	assert.Equal(t, 1, summary.RowCount)
	assert.True(t, decimal.NewFromInt(100).Equal(summary.TotalAmount))
}

func TestEmptyTable(t *testing.T) {
	empty := core.NewTable(nil)

	summary := Summarize(empty)
	assert.Equal(t, 0, summary.RowCount)
	assert.True(t, summary.TotalAmount.IsZero())

	assert.Empty(t, MonthlySpend(empty))
	assert.NotNil(t, MonthlySpend(empty))
	assert.Empty(t, CategorySpend(empty))
	assert.Empty(t, TopMerchants(empty, 10))

	var nilTable *core.Table
	assert.Equal(t, 0, Summarize(nilTable).RowCount)
	assert.Empty(t, MonthlySpend(nilTable))
}
