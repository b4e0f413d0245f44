package sheets

import "context"

// Tab describes one tab (sheet) of a spreadsheet.
type Tab struct {
	Name  string
	ID    int64
	Index int64
}

// RangeWrite is one cell-range update within a batched write.
type RangeWrite struct {
	Range  string
	Values [][]any
}

// DimRange is a half-open run of row or column indexes, 0-based, matching
// the Sheets dimension-range convention.
type DimRange struct {
	Start int64
	End   int64
}

// Backend is the remote tabular-document API the versioning engine runs
// against. Every call is a network round trip; none of them are retried
// here, and no multi-call sequence is atomic.
type Backend interface {
	ListTabs(ctx context.Context, spreadsheetID string) ([]Tab, error)
	CopyTab(ctx context.Context, srcSpreadsheetID string, srcTabID int64, destSpreadsheetID string) (int64, error)
	RenameTab(ctx context.Context, spreadsheetID string, tabID int64, name string) error
	// ReadRange returns resolved cell values; ReadFormulas returns the raw
	// formula text instead. Trailing empty rows and cells may be omitted.
	ReadRange(ctx context.Context, spreadsheetID, a1 string) ([][]string, error)
	ReadFormulas(ctx context.Context, spreadsheetID, a1 string) ([][]string, error)
	// WriteRanges applies all writes in a single batched call.
	WriteRanges(ctx context.Context, spreadsheetID string, writes []RangeWrite) error
	HideRows(ctx context.Context, spreadsheetID string, tabID int64, ranges []DimRange) error
	HideColumns(ctx context.Context, spreadsheetID string, tabID int64, ranges []DimRange) error
	DeleteTab(ctx context.Context, spreadsheetID string, tabID int64) error
}
