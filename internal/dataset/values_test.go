package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadValues(t *testing.T) {
	values := [][]string{
		{"Merchant", "Amount", "Datetime", "Date", "Type", "Category", "Note"},
		{"A", "100", "2024-01-05 10:00:00", "2024-01-05", "P2P", "Food", "lunch"},
		{},
		{"B", "200.50", "2024-02-10T11:00", "2024-02-10", "P2M", "Shopping"},
	}

	table, err := ReadValues(context.Background(), "sheet", values)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "A", table.At(0).Merchant)
	assert.Equal(t, "2024-02", table.At(1).Month)
	assert.Equal(t, "200.5", table.At(1).Amount.String())
}

func TestReadValuesErrors(t *testing.T) {
	ctx := context.Background()

	_, err := ReadValues(ctx, "sheet", nil)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ReadValues(ctx, "sheet", [][]string{{"datetime", "date", "amount"}})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Equal(t, "type", le.Column)

	_, err = ReadValues(ctx, "sheet", [][]string{
		{"datetime", "date", "amount", "type", "category", "merchant"},
		{"2024-01-05T10:00", "2024-01-05", "100", "P2P", "Food", "A"},
		{"2024-01-06T10:00", "2024-01-06", "-5", "P2P", "Food", "A"},
	})
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, ErrNegativeAmount)
	assert.Equal(t, 3, le.Line)
	assert.Equal(t, "amount", le.Column)

	_, err = ReadValues(ctx, "sheet", [][]string{
		{"datetime", "date", "amount", "type", "category", "merchant"},
		{"2024-01-05T10:00", "2024-01-05"},
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
