package dataset

import (
	"context"

	"upidash/internal/core"
	"upidash/internal/storage"
)

// ReadSQLiteFile loads the transactions table of a snapshot written by
// txtool convert (or any database with the same columns). Line numbers in
// errors are 1-based row positions.
func ReadSQLiteFile(ctx context.Context, path string) (*core.Table, error) {
	repo, err := storage.OpenSnapshot(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer repo.Close()

	cols, err := repo.Columns(ctx)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	present := make(map[string]int, len(cols))
	for i, c := range cols {
		present[normalizeHeader(c)] = i
	}
	if col, missing := missingColumn(present); missing {
		return nil, &LoadError{Path: path, Column: col, Err: ErrMissingColumn}
	}

	records, err := repo.ListTransactions(ctx)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	rows := make([]core.Transaction, 0, len(records))
	for i, rec := range records {
		tx, col, err := parseRecord(recordGetter(rec))
		if err != nil {
			return nil, &LoadError{Path: path, Line: i + 1, Column: col, Err: err}
		}
		rows = append(rows, tx)
	}
	return core.NewTable(rows), nil
}

func recordGetter(rec storage.Record) fieldGetter {
	return func(column string) string {
		switch column {
		case core.ColDateTime:
			return rec.DateTime
		case core.ColDate:
			return rec.Date
		case core.ColAmount:
			return rec.Amount
		case core.ColType:
			return rec.Type
		case core.ColCategory:
			return rec.Category
		case core.ColMerchant:
			return rec.Merchant
		}
		return ""
	}
}
