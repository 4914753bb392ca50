package http

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"upidash/internal/filter"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  filter.Selection
	}{
		{
			name:  "no parameters means defaults",
			query: "",
			want:  filter.Selection{Types: []string{}, Categories: []string{}, Months: []string{}},
		},
		{
			name:  "applied flag alone is an empty selection",
			query: "applied=1",
			want:  filter.Selection{Applied: true, Types: []string{}, Categories: []string{}, Months: []string{}},
		},
		{
			name:  "falsy applied without filters keeps defaults",
			query: "applied=no",
			want:  filter.Selection{Types: []string{}, Categories: []string{}, Months: []string{}},
		},
		{
			name:  "filter parameter implies applied",
			query: "type=P2P&type=P2M&month=2024-01&amount_max=%20150%20",
			want: filter.Selection{
				Applied:    true,
				Types:      []string{"P2P", "P2M"},
				Categories: []string{},
				Months:     []string{"2024-01"},
				AmountMax:  "150",
			},
		},
		{
			name:  "control characters are stripped",
			query: "category=Fo%00od",
			want: filter.Selection{
				Applied:    true,
				Types:      []string{},
				Categories: []string{"Food"},
				Months:     []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseSelection(q))
		})
	}
}

func TestEncodeCriteriaRoundTrip(t *testing.T) {
	c := filter.Criteria{
		Amount:     filter.AmountRange{Min: decimal.NewFromInt(5), Max: decimal.RequireFromString("99.5")},
		Types:      filter.NewSet("P2P"),
		Categories: filter.NewSet("Food", "Bills"),
		Months:     filter.NewSet(),
	}

	q := EncodeCriteria(c)
	assert.Equal(t, "1", q.Get(ParamApplied))
	assert.Equal(t, []string{"Bills", "Food"}, q[ParamCategory])

	sel := ParseSelection(q)
	assert.True(t, sel.Applied)
	assert.Equal(t, []string{"P2P"}, sel.Types)
	assert.Empty(t, sel.Months)
	assert.Equal(t, "5", sel.AmountMin)
	assert.Equal(t, "99.5", sel.AmountMax)
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "on"} {
		assert.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "off", "maybe"} {
		assert.False(t, isTruthy(v), v)
	}
}
