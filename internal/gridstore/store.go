// Package gridstore abstracts the hosted spreadsheet backend: a folder of
// workbooks, each workbook a set of sheets, each sheet a grid of string
// cells. Rows and columns are 1-based throughout, matching spreadsheet
// addressing.
package gridstore

import (
	"context"
	"time"
)

// WorkbookInfo is one entry of a folder listing.
type WorkbookInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	ModifiedTime time.Time `json:"modified_time"`
}

type Store interface {
	// ListWorkbooks enumerates the workbooks in a folder. Idempotent; the
	// only store operation that may be retried.
	ListWorkbooks(ctx context.Context, folderID string) ([]WorkbookInfo, error)
	OpenWorkbook(ctx context.Context, id string) (Workbook, error)
}

type Workbook interface {
	ID() string
	// ListSheets returns the workbook's sheets in tab order. The first sheet
	// is the client profile; the rest are monthly calendars.
	ListSheets(ctx context.Context) ([]Sheet, error)
	Close() error
}

type Sheet interface {
	Title() string
	// ReadAll returns every row of the sheet. Rows may be ragged.
	ReadAll(ctx context.Context) ([][]string, error)
	WriteCell(ctx context.Context, row, col int, value string) error
	AppendRow(ctx context.Context, values []string) error
	DeleteRow(ctx context.Context, row int) error
	Clear(ctx context.Context) error
	// BulkWrite writes a block of rows with its top-left cell at (topRow, leftCol).
	BulkWrite(ctx context.Context, rows [][]string, topRow, leftCol int) error
}
