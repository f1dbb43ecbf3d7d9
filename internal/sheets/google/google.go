// Package google mirrors expense records into a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultSheetName = "Expenses"

// Options configures the spreadsheet and credentials. Exactly one of
// CredentialsJSON and CredentialsFile is needed unless ClientOptions supply
// their own authentication.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
	// ClientOptions are appended to the service options; tests use them to
	// point the client at a fake endpoint.
	ClientOptions []goption.ClientOption
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

var _ sheets.RecordExporter = (*Client)(nil)

// New creates a Sheets client using service account credentials.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheet := strings.TrimSpace(opts.SheetName)
	if sheet == "" {
		sheet = defaultSheetName
	}

	svcOpts, err := credentialOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx, append(svcOpts, opts.ClientOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: opts.SpreadsheetID, sheet: sheet}, nil
}

func credentialOptions(ctx context.Context, opts Options) ([]goption.ClientOption, error) {
	if len(opts.ClientOptions) > 0 && opts.CredentialsJSON == "" && opts.CredentialsFile == "" {
		return nil, nil
	}

	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		credentialsJSON = []byte(opts.CredentialsJSON)
	case strings.TrimSpace(opts.CredentialsFile) != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", opts.CredentialsFile)
		b, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return []goption.ClientOption{
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, nil
}

func (c *Client) ids(ctx context.Context) ([][]any, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// EnsureHeader writes the header row when the sheet is empty.
func (c *Client) EnsureHeader(ctx context.Context) error {
	values, err := c.ids(ctx)
	if err != nil {
		return err
	}
	if len(values) > 0 {
		return nil
	}
	header := make([]any, len(sheets.Header))
	for i, h := range sheets.Header {
		header[i] = h
	}
	return c.write(ctx, 1, header)
}

func (c *Client) Upsert(ctx context.Context, e core.Expense) (string, error) {
	if e.ID == "" {
		return "", errors.New("cannot export record without id")
	}
	values, err := c.ids(ctx)
	if err != nil {
		return "", err
	}

	row := findRow(values, e.ID)
	if row == 0 {
		row = nextRow(values)
	}
	if err := c.write(ctx, row, sheets.Row(e)); err != nil {
		return "", err
	}
	return rowRange(c.sheet, row), nil
}

// write stores cells verbatim; RAW keeps user text such as "=SUM(...)"
// from being evaluated as a formula.
func (c *Client) write(ctx context.Context, row int, cells []any) error {
	rng := rowRange(c.sheet, row)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{cells}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) Remove(ctx context.Context, id string) error {
	values, err := c.ids(ctx)
	if err != nil {
		return err
	}
	row := findRow(values, id)
	if row == 0 {
		slog.DebugContext(ctx, "No sheet row for removed record", "id", id)
		return nil
	}
	rng := rowRange(c.sheet, row)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}
