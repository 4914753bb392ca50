package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"upidash/internal/core"
)

// OutputHeader is the column order WriteCSV emits. month is derived and is
// ignored again on reload.
var OutputHeader = append(append([]string(nil), core.RequiredColumns...), core.ColMonth)

// WriteCSV writes rows in a format ReadCSV accepts.
func WriteCSV(w io.Writer, rows []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OutputHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(OutputHeader))
	for i, t := range rows {
		record[0] = t.DateTime.Format(time.RFC3339Nano)
		record[1] = t.Date.String()
		record[2] = t.Amount.String()
		record[3] = t.Type
		record[4] = t.Category
		record[5] = t.Merchant
		record[6] = t.Month
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes rows to path, replacing any existing file.
func WriteCSVFile(path string, rows []core.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
