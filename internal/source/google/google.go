// Package google reads the ledger out of a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fintrack/internal/core"
	ports "fintrack/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc              *gsheet.Service
	spreadsheetID    string
	transactionSheet string
	categorySheet    string
}

// Ensure interface conformance
var (
	_ ports.TransactionReader   = (*Client)(nil)
	_ ports.TransactionAppender = (*Client)(nil)
	_ ports.CategoryReader      = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional sheet names: GOOGLE_TRANSACTIONS_SHEET_NAME (default
// "Transactions", prefixed with the current year), GOOGLE_CATEGORIES_SHEET_NAME
// (default "Categories").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	txBase := strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"))
	if txBase == "" {
		txBase = "Transactions"
	}
	catSheet := strings.TrimSpace(os.Getenv("GOOGLE_CATEGORIES_SHEET_NAME"))
	if catSheet == "" {
		catSheet = "Categories"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:              svc,
		spreadsheetID:    spreadsheetID,
		transactionSheet: yearPrefixedName(txBase, time.Now().Year()),
		categorySheet:    catSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ListTransactions scans the transaction sheet. Rows are best-effort:
// headers and rows that do not parse are skipped and logged, never fatal.
// Columns: A date (YYYY-MM-DD), B description, C amount, D type, E category.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:E", c.transactionSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var out []core.Transaction
	for i, row := range resp.Values {
		tx, err := parseTransactionRow(toStrings(row))
		if err != nil {
			if i > 0 {
				slog.WarnContext(ctx, "Skipping unparsable ledger row",
					"sheet", c.transactionSheet, "row", i+1, "error", err)
			}
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// Categories reads the category sheet. Columns: A name, B optional monthly
// budget.
func (c *Client) Categories(ctx context.Context) ([]core.Category, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2:B", c.categorySheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	seen := map[string]struct{}{}
	var out []core.Category
	for _, row := range resp.Values {
		cols := toStrings(row)
		if len(cols) == 0 || cols[0] == "" || strings.HasPrefix(cols[0], "#") {
			continue
		}
		if _, ok := seen[cols[0]]; ok {
			continue
		}
		seen[cols[0]] = struct{}{}
		cat := core.Category{Name: cols[0]}
		if len(cols) > 1 && cols[1] != "" {
			if cents, ok := parseAmountToCents(cols[1]); ok {
				cat.MonthlyBudget = core.Money{Cents: cents}
			}
		}
		out = append(out, cat)
	}
	return out, nil
}

// Append writes the transaction to the next empty row and returns its range
// reference.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.transactionSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", c.transactionSheet, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:E%d", c.transactionSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		fmt.Sprintf("%04d-%02d-%02d", tx.Date.Year(), tx.Date.Month(), tx.Date.Day()),
		tx.Description,
		tx.Amount.Units(),
		string(tx.Type),
		tx.Category,
	}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", dataRange, err)
	}
	return dataRange, nil
}
