package dataset

import (
	"context"
	"fmt"

	"upidash/internal/core"
)

// ReadValues parses a grid of cells whose first row is the header, as
// returned by spreadsheet APIs. Rows may be shorter than the header when
// trailing cells are empty. Line numbers count the header as line 1.
func ReadValues(ctx context.Context, name string, values [][]string) (*core.Table, error) {
	if len(values) == 0 {
		return nil, &LoadError{Path: name, Line: 1, Err: fmt.Errorf("%w: no header row", ErrMalformed)}
	}

	index := make(map[string]int, len(values[0]))
	for i, h := range values[0] {
		key := normalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	if col, missing := missingColumn(index); missing {
		return nil, &LoadError{Path: name, Line: 1, Column: col, Err: ErrMissingColumn}
	}

	rows := make([]core.Transaction, 0, len(values)-1)
	for i, record := range values[1:] {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &LoadError{Path: name, Err: err}
			}
		}
		if isBlank(record) {
			continue
		}

		tx, col, err := parseRecord(func(column string) string {
			if j := index[column]; j < len(record) {
				return record[j]
			}
			return ""
		})
		if err != nil {
			return nil, &LoadError{Path: name, Line: i + 2, Column: col, Err: err}
		}
		rows = append(rows, tx)
	}
	return core.NewTable(rows), nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if v != "" {
			return false
		}
	}
	return true
}
