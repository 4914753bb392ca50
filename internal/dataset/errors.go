package dataset

import (
	"errors"
	"fmt"

	"upidash/internal/core"
)

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrInvalidTimestamp  = core.ErrInvalidTimestamp
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = core.ErrInvalidAmount
	ErrNegativeAmount    = core.ErrNegativeAmount
	ErrMalformed         = errors.New("malformed input")
	ErrUnsupportedSource = errors.New("unsupported data source")
)

// LoadError reports why a dataset could not be loaded. Line is 1-based
// (the header is line 1) and zero when the failure is not tied to a row.
type LoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load %s: line %d, column %q: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %q: %v", e.Path, e.Column, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
