package dataset

import (
	"strings"

	"upidash/internal/core"
)

// fieldGetter returns the raw value of a required column for one record.
type fieldGetter func(column string) string

// parseRecord validates one record. On failure it returns the offending
// column together with a sentinel error.
func parseRecord(get fieldGetter) (core.Transaction, string, error) {
	dateTime, err := core.ParseTimestamp(get(core.ColDateTime))
	if err != nil {
		return core.Transaction{}, core.ColDateTime, ErrInvalidTimestamp
	}

	date, err := core.ParseTimestamp(get(core.ColDate))
	if err != nil {
		return core.Transaction{}, core.ColDate, ErrInvalidDate
	}

	amount, err := core.ParseAmount(get(core.ColAmount))
	if err != nil {
		return core.Transaction{}, core.ColAmount, err
	}

	return core.NewTransaction(
		dateTime,
		date,
		amount,
		strings.TrimSpace(get(core.ColType)),
		strings.TrimSpace(get(core.ColCategory)),
		strings.TrimSpace(get(core.ColMerchant)),
	), "", nil
}

// missingColumn returns the first required column absent from present.
func missingColumn(present map[string]int) (string, bool) {
	for _, col := range core.RequiredColumns {
		if _, ok := present[col]; !ok {
			return col, true
		}
	}
	return "", false
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}
