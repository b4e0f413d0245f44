package versions

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/sheets"
)

// Entry is one ledger row describing a version.
type Entry struct {
	Slot           int    `json:"slot"` // 1-based ledger position
	Active         bool   `json:"active"`
	SheetName      string `json:"sheet_name"`
	Created        string `json:"created"` // date stamp, set once
	ItemsCount     int    `json:"items_count"`
	LocationsCount int    `json:"locations_count"`
	Status         Status `json:"status"`
}

// Tracker maintains the bounded version ledger embedded in the Setup tab.
// Writes are read-modify-write over individual entries, not transactions;
// the engine assumes a single writer per document.
type Tracker struct {
	backend       sheets.Backend
	spreadsheetID string
	log           *slog.Logger
}

func NewTracker(backend sheets.Backend, spreadsheetID string, log *slog.Logger) *Tracker {
	return &Tracker{backend: backend, spreadsheetID: spreadsheetID, log: log}
}

// ReadLedger parses the ledger region. Slots with an empty sheet name are
// absent, not entries.
func (t *Tracker) ReadLedger(ctx context.Context) ([]Entry, error) {
	region := sheets.RangeRef(setup.SetupTab,
		setup.LedgerFirstRow, setup.ColLedgerActive,
		setup.LedgerFirstRow+setup.LedgerSlots-1, setup.ColLedgerStatus)
	values, err := t.backend.ReadRange(ctx, t.spreadsheetID, region)
	if err != nil {
		return nil, fmt.Errorf("read version ledger: %w", err)
	}

	var entries []Entry
	for slot := 1; slot <= setup.LedgerSlots; slot++ {
		cells := ledgerRow(values, slot-1)
		name := strings.TrimSpace(ledgerField(cells, setup.ColLedgerSheetName))
		if name == "" {
			continue
		}
		entries = append(entries, Entry{
			Slot:           slot,
			Active:         parseFlag(ledgerField(cells, setup.ColLedgerActive)),
			SheetName:      name,
			Created:        strings.TrimSpace(ledgerField(cells, setup.ColLedgerCreated)),
			ItemsCount:     parseCount(ledgerField(cells, setup.ColLedgerItems)),
			LocationsCount: parseCount(ledgerField(cells, setup.ColLedgerLocations)),
			Status:         Status(strings.TrimSpace(ledgerField(cells, setup.ColLedgerStatus))),
		})
	}
	return entries, nil
}

// AddEntry registers a new version as the active one. Every existing
// entry is deactivated and the new entry lands in the first empty slot.
// A full ledger is a logged degradation, not an error: the last slot is
// overwritten.
func (t *Tracker) AddEntry(ctx context.Context, sheetName string, itemsCount, locationsCount int, today time.Time) (*Entry, error) {
	entries, err := t.ReadLedger(ctx)
	if err != nil {
		return nil, err
	}

	var writes []sheets.RangeWrite
	for _, e := range entries {
		writes = append(writes, sheets.RangeWrite{
			Range:  t.cell(e.Slot, setup.ColLedgerActive),
			Values: [][]any{{false}},
		})
	}

	slot := freeSlot(entries)
	if slot == 0 {
		slot = setup.LedgerSlots
		t.log.Warn("version ledger full, overwriting last slot",
			"sheet_name", sheetName, "slot", slot)
	}

	entry := &Entry{
		Slot:           slot,
		Active:         true,
		SheetName:      sheetName,
		Created:        today.Format(nameLayout),
		ItemsCount:     itemsCount,
		LocationsCount: locationsCount,
		Status:         StatusInProgress,
	}
	writes = append(writes, sheets.RangeWrite{
		Range: t.rowRange(slot),
		Values: [][]any{{
			true, entry.SheetName, entry.Created,
			entry.ItemsCount, entry.LocationsCount, string(entry.Status),
		}},
	})

	if err := t.backend.WriteRanges(ctx, t.spreadsheetID, writes); err != nil {
		return nil, fmt.Errorf("write ledger entry for %q: %w", sheetName, err)
	}
	return entry, nil
}

// SetActive flips the active flag to the named entry. Only cells whose
// value actually changes are written.
func (t *Tracker) SetActive(ctx context.Context, targetName string) error {
	entries, err := t.ReadLedger(ctx)
	if err != nil {
		return err
	}
	found := false
	var writes []sheets.RangeWrite
	for _, e := range entries {
		isTarget := e.SheetName == targetName
		if isTarget {
			found = true
		}
		if e.Active == isTarget {
			continue
		}
		writes = append(writes, sheets.RangeWrite{
			Range:  t.cell(e.Slot, setup.ColLedgerActive),
			Values: [][]any{{isTarget}},
		})
	}
	if !found {
		return fmt.Errorf("ledger entry %q: %w", targetName, ErrNotFound)
	}
	if len(writes) == 0 {
		return nil
	}
	if err := t.backend.WriteRanges(ctx, t.spreadsheetID, writes); err != nil {
		return fmt.Errorf("activate %q: %w", targetName, err)
	}
	return nil
}

// UpdateStatus overwrites only the status field of the named entry.
func (t *Tracker) UpdateStatus(ctx context.Context, sheetName string, status Status) error {
	entry, err := t.find(ctx, sheetName)
	if err != nil {
		return err
	}
	write := sheets.RangeWrite{
		Range:  t.cell(entry.Slot, setup.ColLedgerStatus),
		Values: [][]any{{string(status)}},
	}
	if err := t.backend.WriteRanges(ctx, t.spreadsheetID, []sheets.RangeWrite{write}); err != nil {
		return fmt.Errorf("update status of %q: %w", sheetName, err)
	}
	return nil
}

// RenameEntry rewrites the sheet-name cell after a tab rename.
func (t *Tracker) RenameEntry(ctx context.Context, oldName, newName string) error {
	entry, err := t.find(ctx, oldName)
	if err != nil {
		return err
	}
	write := sheets.RangeWrite{
		Range:  t.cell(entry.Slot, setup.ColLedgerSheetName),
		Values: [][]any{{newName}},
	}
	if err := t.backend.WriteRanges(ctx, t.spreadsheetID, []sheets.RangeWrite{write}); err != nil {
		return fmt.Errorf("rename ledger entry %q: %w", oldName, err)
	}
	return nil
}

// ClearEntry blanks the named entry's slot. The slot itself stays in
// place; absence is an empty sheet name.
func (t *Tracker) ClearEntry(ctx context.Context, sheetName string) error {
	entry, err := t.find(ctx, sheetName)
	if err != nil {
		return err
	}
	write := sheets.RangeWrite{
		Range:  t.rowRange(entry.Slot),
		Values: [][]any{{"", "", "", "", "", ""}},
	}
	if err := t.backend.WriteRanges(ctx, t.spreadsheetID, []sheets.RangeWrite{write}); err != nil {
		return fmt.Errorf("clear ledger entry %q: %w", sheetName, err)
	}
	return nil
}

func (t *Tracker) find(ctx context.Context, sheetName string) (*Entry, error) {
	entries, err := t.ReadLedger(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].SheetName == sheetName {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("ledger entry %q: %w", sheetName, ErrNotFound)
}

func (t *Tracker) cell(slot, col int) string {
	return sheets.CellRef(setup.SetupTab, setup.LedgerFirstRow+slot-1, col)
}

func (t *Tracker) rowRange(slot int) string {
	row := setup.LedgerFirstRow + slot - 1
	return sheets.RangeRef(setup.SetupTab, row, setup.ColLedgerActive, row, setup.ColLedgerStatus)
}

func freeSlot(entries []Entry) int {
	used := make(map[int]bool, len(entries))
	for _, e := range entries {
		used[e.Slot] = true
	}
	for slot := 1; slot <= setup.LedgerSlots; slot++ {
		if !used[slot] {
			return slot
		}
	}
	return 0
}

func ledgerRow(values [][]string, i int) []string {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func ledgerField(cells []string, col int) string {
	i := col - setup.ColLedgerActive
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
