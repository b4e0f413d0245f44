package sheets

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Fake is an in-memory Backend used by package tests. It models just
// enough of the Sheets behavior the engine depends on: named tabs, sparse
// cell grids addressed by A1 ranges, hidden-dimension bookkeeping, and the
// USER_ENTERED coercion of booleans to TRUE/FALSE.
type Fake struct {
	mu     sync.Mutex
	docs   map[string]*fakeDoc
	nextID int64

	// FailOn makes the named operation ("WriteRanges", "CopyTab", ...)
	// return FailErr after FailAfter matching calls have succeeded, for
	// exercising partial-completion paths.
	FailOn    string
	FailAfter int
	FailErr   error

	// Writes journals every WriteRanges call, so tests can assert that
	// no-op writes are skipped.
	Writes []RangeWrite
}

type fakeDoc struct {
	tabs []Tab
	// cells[tabID][row][col], all 1-based.
	cells      map[int64]map[int]map[int]string
	hiddenRows map[int64]map[int64]bool
	hiddenCols map[int64]map[int64]bool
}

func NewFake() *Fake {
	return &Fake{docs: make(map[string]*fakeDoc), nextID: 100}
}

// AddDoc registers an empty spreadsheet.
func (f *Fake) AddDoc(spreadsheetID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc(spreadsheetID)
}

// AddTab creates a tab and returns its id.
func (f *Fake) AddTab(spreadsheetID, name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.doc(spreadsheetID)
	f.nextID++
	id := f.nextID
	d.tabs = append(d.tabs, Tab{Name: name, ID: id, Index: int64(len(d.tabs))})
	d.cells[id] = make(map[int]map[int]string)
	return id
}

// SetCell writes one cell, row and col 1-based.
func (f *Fake) SetCell(spreadsheetID, tabName string, row, col int, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.doc(spreadsheetID)
	tab, ok := f.tabByName(d, tabName)
	if !ok {
		panic(fmt.Sprintf("fake: no tab %q in %s", tabName, spreadsheetID))
	}
	f.setCell(d, tab.ID, row, col, value)
}

// Cell reads one cell back, empty string if never written.
func (f *Fake) Cell(spreadsheetID, tabName string, row, col int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.doc(spreadsheetID)
	tab, ok := f.tabByName(d, tabName)
	if !ok {
		return ""
	}
	return d.cells[tab.ID][row][col]
}

// HiddenRows reports the 0-based row indexes hidden on a tab.
func (f *Fake) HiddenRows(spreadsheetID string, tabID int64) map[int64]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copySet(f.doc(spreadsheetID).hiddenRows[tabID])
}

// HiddenCols reports the 0-based column indexes hidden on a tab.
func (f *Fake) HiddenCols(spreadsheetID string, tabID int64) map[int64]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copySet(f.doc(spreadsheetID).hiddenCols[tabID])
}

func (f *Fake) ListTabs(ctx context.Context, spreadsheetID string) ([]Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("ListTabs"); err != nil {
		return nil, err
	}
	d := f.doc(spreadsheetID)
	out := make([]Tab, len(d.tabs))
	copy(out, d.tabs)
	return out, nil
}

func (f *Fake) CopyTab(ctx context.Context, srcSpreadsheetID string, srcTabID int64, destSpreadsheetID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("CopyTab"); err != nil {
		return 0, err
	}
	src := f.doc(srcSpreadsheetID)
	var srcTab *Tab
	for i := range src.tabs {
		if src.tabs[i].ID == srcTabID {
			srcTab = &src.tabs[i]
		}
	}
	if srcTab == nil {
		return 0, fmt.Errorf("fake: no tab %d in %s", srcTabID, srcSpreadsheetID)
	}
	dest := f.doc(destSpreadsheetID)
	f.nextID++
	id := f.nextID
	dest.tabs = append(dest.tabs, Tab{Name: "Copy of " + srcTab.Name, ID: id, Index: int64(len(dest.tabs))})
	dest.cells[id] = make(map[int]map[int]string)
	for row, cols := range src.cells[srcTabID] {
		for col, v := range cols {
			f.setCell(dest, id, row, col, v)
		}
	}
	if hidden := src.hiddenRows[srcTabID]; len(hidden) > 0 {
		dest.hiddenRows[id] = copySet(hidden)
	}
	if hidden := src.hiddenCols[srcTabID]; len(hidden) > 0 {
		dest.hiddenCols[id] = copySet(hidden)
	}
	return id, nil
}

func (f *Fake) RenameTab(ctx context.Context, spreadsheetID string, tabID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("RenameTab"); err != nil {
		return err
	}
	d := f.doc(spreadsheetID)
	for i := range d.tabs {
		if d.tabs[i].ID == tabID {
			d.tabs[i].Name = name
			return nil
		}
	}
	return fmt.Errorf("fake: no tab %d in %s", tabID, spreadsheetID)
}

func (f *Fake) ReadRange(ctx context.Context, spreadsheetID, a1 string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("ReadRange"); err != nil {
		return nil, err
	}
	return f.readMatrix(spreadsheetID, a1)
}

func (f *Fake) ReadFormulas(ctx context.Context, spreadsheetID, a1 string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("ReadFormulas"); err != nil {
		return nil, err
	}
	// The fake stores one value per cell; formulas render the same.
	return f.readMatrix(spreadsheetID, a1)
}

func (f *Fake) WriteRanges(ctx context.Context, spreadsheetID string, writes []RangeWrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("WriteRanges"); err != nil {
		return err
	}
	f.Writes = append(f.Writes, writes...)
	d := f.doc(spreadsheetID)
	for _, w := range writes {
		tabName, row1, col1, _, _, err := ParseRange(w.Range)
		if err != nil {
			return err
		}
		tab, ok := f.tabByName(d, tabName)
		if !ok {
			return fmt.Errorf("fake: no tab %q in %s", tabName, spreadsheetID)
		}
		for i, rowVals := range w.Values {
			for j, v := range rowVals {
				f.setCell(d, tab.ID, row1+i, col1+j, formatValue(v))
			}
		}
	}
	return nil
}

func (f *Fake) HideRows(ctx context.Context, spreadsheetID string, tabID int64, ranges []DimRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("HideRows"); err != nil {
		return err
	}
	d := f.doc(spreadsheetID)
	markHidden(d.hiddenRows, tabID, ranges)
	return nil
}

func (f *Fake) HideColumns(ctx context.Context, spreadsheetID string, tabID int64, ranges []DimRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("HideColumns"); err != nil {
		return err
	}
	d := f.doc(spreadsheetID)
	markHidden(d.hiddenCols, tabID, ranges)
	return nil
}

func (f *Fake) DeleteTab(ctx context.Context, spreadsheetID string, tabID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("DeleteTab"); err != nil {
		return err
	}
	d := f.doc(spreadsheetID)
	for i := range d.tabs {
		if d.tabs[i].ID == tabID {
			d.tabs = append(d.tabs[:i], d.tabs[i+1:]...)
			delete(d.cells, tabID)
			delete(d.hiddenRows, tabID)
			delete(d.hiddenCols, tabID)
			return nil
		}
	}
	return fmt.Errorf("fake: no tab %d in %s", tabID, spreadsheetID)
}

func (f *Fake) readMatrix(spreadsheetID, a1 string) ([][]string, error) {
	d := f.doc(spreadsheetID)
	tabName, row1, col1, row2, col2, err := ParseRange(a1)
	if err != nil {
		return nil, err
	}
	tab, ok := f.tabByName(d, tabName)
	if !ok {
		return nil, fmt.Errorf("fake: no tab %q in %s", tabName, spreadsheetID)
	}
	grid := d.cells[tab.ID]
	var out [][]string
	for r := row1; r <= row2; r++ {
		row := make([]string, 0, col2-col1+1)
		for c := col1; c <= col2; c++ {
			row = append(row, grid[r][c])
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *Fake) doc(spreadsheetID string) *fakeDoc {
	d, ok := f.docs[spreadsheetID]
	if !ok {
		d = &fakeDoc{
			cells:      make(map[int64]map[int]map[int]string),
			hiddenRows: make(map[int64]map[int64]bool),
			hiddenCols: make(map[int64]map[int64]bool),
		}
		f.docs[spreadsheetID] = d
	}
	return d
}

func (f *Fake) tabByName(d *fakeDoc, name string) (Tab, bool) {
	for _, t := range d.tabs {
		if t.Name == name {
			return t, true
		}
	}
	return Tab{}, false
}

func (f *Fake) setCell(d *fakeDoc, tabID int64, row, col int, value string) {
	grid := d.cells[tabID]
	if grid == nil {
		grid = make(map[int]map[int]string)
		d.cells[tabID] = grid
	}
	if grid[row] == nil {
		grid[row] = make(map[int]string)
	}
	grid[row][col] = value
}

func (f *Fake) failure(op string) error {
	if f.FailOn != op {
		return nil
	}
	if f.FailAfter > 0 {
		f.FailAfter--
		return nil
	}
	f.FailOn = ""
	return f.FailErr
}

// formatValue mimics how USER_ENTERED input reads back out of Sheets.
func formatValue(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func markHidden(m map[int64]map[int64]bool, tabID int64, ranges []DimRange) {
	set := m[tabID]
	if set == nil {
		set = make(map[int64]bool)
		m[tabID] = set
	}
	for _, r := range ranges {
		for i := r.Start; i < r.End; i++ {
			set[i] = true
		}
	}
}

func copySet(in map[int64]bool) map[int64]bool {
	out := make(map[int64]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
