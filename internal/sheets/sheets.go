// Package sheets reads transaction datasets from Google Sheets ranges.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"upidash/internal/core"
	"upidash/internal/dataset"
	"upidash/internal/log"
)

// DefaultRange is read when a location names only the spreadsheet.
const DefaultRange = "Transactions"

var ErrInvalidLocation = errors.New("invalid sheets location")

// Client reads value ranges with a read-only Sheets service.
type Client struct {
	svc    *gsheet.Service
	logger *log.Logger
}

// NewFromEnv creates a client from service account credentials in
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS, in that order.
func NewFromEnv(ctx context.Context, logger *log.Logger) (*Client, error) {
	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, logger,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
}

// NewClient builds a client from explicit options; tests point it at a
// local endpoint.
func NewClient(ctx context.Context, logger *log.Logger, opts ...goption.ClientOption) (*Client, error) {
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{svc: svc, logger: logger.WithComponent(log.ComponentDataset)}, nil
}

func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}

	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// ParseLocation splits sheets://<spreadsheet-id>/<range>. The range may be
// omitted, in which case DefaultRange is used.
func ParseLocation(location string) (spreadsheetID, rng string, err error) {
	rest, ok := strings.CutPrefix(location, dataset.SheetsScheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q lacks %s", ErrInvalidLocation, location, dataset.SheetsScheme)
	}
	spreadsheetID, rng, _ = strings.Cut(rest, "/")
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return "", "", fmt.Errorf("%w: %q has no spreadsheet id", ErrInvalidLocation, location)
	}
	if rng = strings.TrimSpace(rng); rng == "" {
		rng = DefaultRange
	}
	return spreadsheetID, rng, nil
}

// ReadValues returns the formatted cell values of rng as strings.
func (c *Client) ReadValues(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("read %s: %w", rng, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = toStrings(row)
	}
	return out, nil
}

// ReadTable loads the transactions at location. It has the shape of a
// dataset.ReaderFunc.
func (c *Client) ReadTable(ctx context.Context, location string) (*core.Table, error) {
	spreadsheetID, rng, err := ParseLocation(location)
	if err != nil {
		return nil, &dataset.LoadError{Path: location, Err: err}
	}

	values, err := c.ReadValues(ctx, spreadsheetID, rng)
	if err != nil {
		return nil, &dataset.LoadError{Path: location, Err: err}
	}
	c.logger.DebugContext(ctx, "Sheet range read",
		log.FieldSource, location,
		log.FieldRows, len(values))
	return dataset.ReadValues(ctx, location, values)
}

// Readers registers c for sheets:// locations in a dataset.Loader.
func (c *Client) Readers() map[dataset.SourceType]dataset.ReaderFunc {
	return map[dataset.SourceType]dataset.ReaderFunc{dataset.SourceSheets: c.ReadTable}
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}
