package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"upidash/internal/core"
)

// cancelCheckEvery is how many rows are read between context checks.
const cancelCheckEvery = 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSVFile loads the CSV at path.
func ReadCSVFile(ctx context.Context, path string) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	return ReadCSV(ctx, f, path)
}

// ReadCSV parses transactions from r. name only labels errors.
func ReadCSV(ctx context.Context, r io.Reader, name string) (*core.Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Path: name, Line: 1, Err: fmt.Errorf("%w: no header row", ErrMalformed)}
	}
	if err != nil {
		return nil, csvError(name, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	if col, missing := missingColumn(index); missing {
		return nil, &LoadError{Path: name, Line: 1, Column: col, Err: ErrMissingColumn}
	}

	var rows []core.Transaction
	for n := 0; ; n++ {
		if n%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &LoadError{Path: name, Err: err}
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}

		line, _ := reader.FieldPos(0)
		tx, col, err := parseRecord(func(column string) string {
			return record[index[column]]
		})
		if err != nil {
			return nil, &LoadError{Path: name, Line: line, Column: col, Err: err}
		}
		rows = append(rows, tx)
	}

	return core.NewTable(rows), nil
}

func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &LoadError{Path: name, Line: pe.Line, Err: fmt.Errorf("%w: %w", ErrMalformed, pe.Err)}
	}
	return &LoadError{Path: name, Err: err}
}
