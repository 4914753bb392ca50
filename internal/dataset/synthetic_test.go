package dataset

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSyntheticIsReproducible(t *testing.T) {
	opts := SyntheticOptions{Rows: 50, Months: 3, Seed: 7}
	a := GenerateSynthetic(opts)
	b := GenerateSynthetic(opts)
	assert.Equal(t, a.Rows(), b.Rows())

	c := GenerateSynthetic(SyntheticOptions{Rows: 50, Months: 3, Seed: 8})
	assert.NotEqual(t, a.Rows(), c.Rows())
}

func TestGenerateSyntheticShape(t *testing.T) {
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	table := GenerateSynthetic(SyntheticOptions{Rows: 200, Start: start, Months: 2, Seed: 1})
	require.Equal(t, 200, table.Len())

	for _, tx := range table.Rows() {
		assert.Contains(t, []string{"2024-03", "2024-04"}, tx.Month)
		assert.False(t, tx.Amount.IsNegative())
		assert.NotEmpty(t, tx.Merchant)
		assert.Equal(t, tx.DateTime.Format(time.DateOnly), tx.Date.String())
	}
}

func TestGenerateSyntheticLoadsBack(t *testing.T) {
	table := GenerateSynthetic(SyntheticOptions{Rows: 25, Seed: 3})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table.Rows()))

	got, err := ReadCSV(context.Background(), &buf, "synthetic.csv")
	require.NoError(t, err)
	require.Equal(t, table.Len(), got.Len())
	for i := range table.Rows() {
		assert.True(t, table.At(i).Amount.Equal(got.At(i).Amount))
		assert.True(t, table.At(i).DateTime.Equal(got.At(i).DateTime))
	}
}
