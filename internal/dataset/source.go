package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"upidash/internal/core"
)

// SourceType selects how a data path is read.
type SourceType string

const (
	SourceAuto   SourceType = "auto"
	SourceCSV    SourceType = "csv"
	SourceSQLite SourceType = "sqlite"
	SourceSheets SourceType = "sheets"
)

// SheetsScheme prefixes data paths that name a Google Sheets range,
// as in sheets://<spreadsheet-id>/<range>.
const SheetsScheme = "sheets://"

func (s SourceType) String() string {
	return string(s)
}

func (s SourceType) IsValid() bool {
	switch s {
	case SourceAuto, SourceCSV, SourceSQLite, SourceSheets:
		return true
	}
	return false
}

// SourceTypes lists every accepted value, for help text and validation.
func SourceTypes() []string {
	return []string{SourceAuto.String(), SourceCSV.String(), SourceSQLite.String(), SourceSheets.String()}
}

// ParseSourceType accepts a SourceType name; empty means auto.
func ParseSourceType(s string) (SourceType, error) {
	st := SourceType(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return SourceAuto, nil
	}
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedSource, s, strings.Join(SourceTypes(), ", "))
	}
	return st, nil
}

var sqliteExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// DetectSource picks Sheets for sheets:// paths, SQLite for
// .db/.sqlite/.sqlite3 files and CSV otherwise.
func DetectSource(path string) SourceType {
	if strings.HasPrefix(path, SheetsScheme) {
		return SourceSheets
	}
	if sqliteExtensions[strings.ToLower(filepath.Ext(path))] {
		return SourceSQLite
	}
	return SourceCSV
}

// ReaderFunc reads a whole dataset from path.
type ReaderFunc func(ctx context.Context, path string) (*core.Table, error)

// ReaderFor resolves st (auto uses the extension of path) to a reader.
// Remote sources have no built-in reader and must come from extra.
func ReaderFor(st SourceType, path string, extra map[SourceType]ReaderFunc) (ReaderFunc, error) {
	if st == SourceAuto || st == "" {
		st = DetectSource(path)
	}
	if read, ok := extra[st]; ok {
		return read, nil
	}
	switch st {
	case SourceCSV:
		return ReadCSVFile, nil
	case SourceSQLite:
		return ReadSQLiteFile, nil
	case SourceSheets:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: no Google Sheets client configured", ErrUnsupportedSource)}
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedSource, st)}
	}
}

// ReadFile loads a local path with the reader st selects, without memoization.
func ReadFile(ctx context.Context, st SourceType, path string) (*core.Table, error) {
	read, err := ReaderFor(st, path, nil)
	if err != nil {
		return nil, err
	}
	return read(ctx, path)
}
