package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-05T10:00", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), true},
		{"2024-01-05 10:00:30", time.Date(2024, 1, 5, 10, 0, 30, 0, time.UTC), true},
		{"2024-01-05T10:00:30Z", time.Date(2024, 1, 5, 10, 0, 30, 0, time.UTC), true},
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{" 2024-02-10 11:00 ", time.Date(2024, 2, 10, 11, 0, 0, 0, time.UTC), true},
		{"05/01/2024", time.Time{}, false},
		{"", time.Time{}, false},
		{"2024-13-01", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidTimestamp, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), "%q: got %v", tc.in, got)
	}
}

func TestParseTimestampKeepsOffset(t *testing.T) {
	ts, err := ParseTimestamp("2024-01-31T23:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", MonthOf(ts))
	assert.Equal(t, "2024-01-31", DateOf(ts).String())
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("100.50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("100.5")))

	d, err = ParseAmount("0")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseAmount("-1")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	for _, bad := range []string{"", "abc", "1,5", "1.2.3"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

func TestDerivationIsIdempotent(t *testing.T) {
	ts := time.Date(2024, 2, 29, 18, 45, 0, 0, time.UTC)
	first := NewTransaction(ts, ts, decimal.NewFromInt(5), "P2P", "Food", "A")
	second := NewTransaction(ts, ts, decimal.NewFromInt(5), "P2P", "Food", "A")
	assert.Equal(t, first.Month, second.Month)
	assert.True(t, first.Date.Equal(second.Date.Time))
	assert.Equal(t, "2024-02", first.Month)
	assert.Equal(t, NewDate(2024, 2, 29), first.Date)
}

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"0":           "₹0.00",
		"100":         "₹100.00",
		"1234.5":      "₹1,234.50",
		"1234567.891": "₹1,234,567.89",
		"999.995":     "₹1,000.00",
		"-42.1":       "-₹42.10",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(in), "₹"), in)
	}
}
