// Package indices reads published ICL and IPC index values from the
// shared Google spreadsheet the administration maintains.
package indices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/franalderete7/expenzo-sub000/internal/core"
	applog "github.com/franalderete7/expenzo-sub000/internal/log"
)

// Reader loads every index value a source publishes.
type Reader interface {
	Read(ctx context.Context) ([]core.IndexValue, error)
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	iclSheet      string
	ipcSheet      string
}

var _ Reader = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables and
// service account credentials.
// Required: GOOGLE_SPREADSHEET_ID
// Optional sheet names: GOOGLE_ICL_SHEET_NAME (default "ICL"),
// GOOGLE_IPC_SHEET_NAME (default "IPC").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	iclSheet := strings.TrimSpace(os.Getenv("GOOGLE_ICL_SHEET_NAME"))
	if iclSheet == "" {
		iclSheet = "ICL"
	}
	ipcSheet := strings.TrimSpace(os.Getenv("GOOGLE_IPC_SHEET_NAME"))
	if ipcSheet == "" {
		ipcSheet = "IPC"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		iclSheet:      iclSheet,
		ipcSheet:      ipcSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
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
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Read loads both index sheets. Each sheet holds one value per row:
// column A the period as YYYY-MM, column B the published value.
func (c *Client) Read(ctx context.Context) ([]core.IndexValue, error) {
	sheets := []struct {
		name string
		kind core.IndexKind
	}{
		{c.iclSheet, core.IndexICL},
		{c.ipcSheet, core.IndexIPC},
	}

	results := make([][]core.IndexValue, len(sheets))
	g, gctx := errgroup.WithContext(ctx)
	for i, sheet := range sheets {
		g.Go(func() error {
			rng := fmt.Sprintf("%s!A:B", sheet.name)
			resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(gctx).Do()
			if err != nil {
				return fmt.Errorf("read sheet %s: %w", sheet.name, err)
			}

			values, err := parseIndexRows(resp.Values, sheet.kind)
			if err != nil {
				return fmt.Errorf("parse sheet %s: %w", sheet.name, err)
			}
			slog.InfoContext(gctx, "Read index sheet",
				"sheet", sheet.name, applog.FieldIndexKind, string(sheet.kind), "rows", len(values))
			results[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []core.IndexValue
	for _, values := range results {
		all = append(all, values...)
	}
	return all, nil
}
