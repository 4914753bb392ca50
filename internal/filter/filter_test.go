package filter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upidash/internal/core"
)

func tx(ts string, amount int64, typ, category, merchant string) core.Transaction {
	dt, err := core.ParseTimestamp(ts)
	if err != nil {
		panic(err)
	}
	return core.NewTransaction(dt, dt, decimal.NewFromInt(amount), typ, category, merchant)
}

func scenarioTable() *core.Table {
	return core.NewTable([]core.Transaction{
		tx("2024-01-05T10:00", 100, "P2P", "Food", "A"),
		tx("2024-02-10T11:00", 200, "P2M", "Shopping", "B"),
	})
}

func mixedTable() *core.Table {
	return core.NewTable([]core.Transaction{
		tx("2024-03-01T08:00", 40, "P2M", "Bills", "Power Co"),
		tx("2024-01-05T10:00", 100, "P2P", "Food", "A"),
		tx("2024-02-10T11:00", 200, "P2M", "Shopping", "B"),
		tx("2024-01-15T12:00", 75, "P2M", "Food", "B"),
		tx("2024-02-20T09:00", 10, "P2P", "Bills", "A"),
	})
}

func TestApplyScenario(t *testing.T) {
	c := Criteria{
		Amount:     AmountRange{Min: decimal.Zero, Max: decimal.NewFromInt(150)},
		Types:      NewSet("P2P"),
		Categories: NewSet("Food"),
		Months:     NewSet("2024-01"),
	}

	got := Apply(scenarioTable(), c)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "A", got.At(0).Merchant)
	assert.True(t, decimal.NewFromInt(100).Equal(got.At(0).Amount))
}

func TestApplyDefaultsIsIdentity(t *testing.T) {
	table := mixedTable()
	got := Apply(table, DefaultCriteria(OptionsFor(table)))
	assert.Equal(t, table.Rows(), got.Rows())
}

func TestApplyNeverAddsRows(t *testing.T) {
	table := mixedTable()
	opts := OptionsFor(table)
	criteria := []Criteria{
		DefaultCriteria(opts),
		{Amount: AmountRange{Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(100)}, Types: NewSet(opts.Types...), Categories: NewSet(opts.Categories...), Months: NewSet(opts.Months...)},
		{Amount: AmountRange{Min: decimal.Zero, Max: decimal.NewFromInt(1000)}, Types: NewSet("P2M"), Categories: NewSet("Food", "Bills"), Months: NewSet("2024-01", "2024-03")},
	}
	for i, c := range criteria {
		assert.LessOrEqual(t, Apply(table, c).Len(), table.Len(), "criteria %d", i)
	}
}

func TestApplyEmptySetsMatchNothing(t *testing.T) {
	table := mixedTable()
	full := DefaultCriteria(OptionsFor(table))

	noTypes := full
	noTypes.Types = NewSet()
	assert.Equal(t, 0, Apply(table, noTypes).Len())

	noCategories := full
	noCategories.Categories = nil
	assert.Equal(t, 0, Apply(table, noCategories).Len())

	noMonths := full
	noMonths.Months = Set{}
	assert.Equal(t, 0, Apply(table, noMonths).Len())
}

func TestApplyBoundsInclusiveAndOrderPreserved(t *testing.T) {
	table := mixedTable()
	c := DefaultCriteria(OptionsFor(table))
	c.Amount = AmountRange{Min: decimal.NewFromInt(40), Max: decimal.NewFromInt(100)}

	got := Apply(table, c)
	var merchants []string
	for _, r := range got.Rows() {
		merchants = append(merchants, r.Merchant)
	}
	assert.Equal(t, []string{"Power Co", "A", "B"}, merchants)
	assert.Equal(t, 5, table.Len(), "input must not change")
}

func TestApplyInvertedRange(t *testing.T) {
	table := mixedTable()
	c := DefaultCriteria(OptionsFor(table))
	c.Amount = AmountRange{Min: decimal.NewFromInt(150), Max: decimal.NewFromInt(50)}
	assert.Equal(t, 0, Apply(table, c).Len())
}

func TestOptionsFor(t *testing.T) {
	rows := mixedTable().Rows()
	rows = append(rows, core.NewTransaction(
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString("250.40"), "P2P", "Travel", "C"))
	rows[4].Amount = decimal.RequireFromString("9.99")

	opts := OptionsFor(core.NewTable(rows))
	assert.Equal(t, len(rows), opts.Rows)
	assert.Equal(t, []string{"P2M", "P2P"}, opts.Types)
	assert.Equal(t, []string{"Bills", "Food", "Shopping", "Travel"}, opts.Categories)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-04"}, opts.Months)
	assert.Equal(t, "9", opts.AmountMin.String())
	assert.Equal(t, "251", opts.AmountMax.String())
}

func TestOptionsForEmptyTable(t *testing.T) {
	opts := OptionsFor(core.NewTable(nil))
	assert.Empty(t, opts.Types)
	assert.NotNil(t, opts.Types)
	assert.True(t, opts.AmountMin.IsZero())
	assert.True(t, opts.AmountMax.IsZero())

	assert.Equal(t, 0, Apply(core.NewTable(nil), DefaultCriteria(opts)).Len())
}

func TestValidate(t *testing.T) {
	opts := OptionsFor(mixedTable())

	assert.Empty(t, Validate(DefaultCriteria(opts), opts))

	c := DefaultCriteria(opts)
	c.Amount = AmountRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(5)}
	c.Types = NewSet("P2P", "Refund")
	c.Months = NewSet("2030-01")

	warnings := Validate(c, opts)
	require.Len(t, warnings, 3)
	assert.Equal(t, FieldAmount, warnings[0].Field)
	assert.Equal(t, "10..5", warnings[0].Value)
	assert.Equal(t, Warning{Field: FieldType, Value: "Refund", Message: `Unknown type "Refund" matches no transactions`}, warnings[1])
	assert.Equal(t, FieldMonth, warnings[2].Field)
	assert.Equal(t, "2030-01", warnings[2].Value)

	// Warnings never adjust the criteria.
	assert.True(t, c.Types.Has("Refund"))
	assert.True(t, c.Amount.Empty())
}

func TestSetValues(t *testing.T) {
	s := NewSet("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Values())
	assert.False(t, Set(nil).Has("a"))
}
