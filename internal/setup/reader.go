package setup

import (
	"context"
	"fmt"
	"strings"

	"github.com/bcarsten/takeoffvc/internal/sheets"
)

// Row is one canonical configuration entry. Immutable once parsed; a new
// snapshot is read from the document on every Read call.
type Row struct {
	Position     int    // 1-based row on the Setup tab
	ItemID       string
	Section      Section // empty if no header precedes the row
	Scope        string
	RValue       string
	Thickness    string
	MaterialType string
	BidType      string
	ToolName     string
	Toggles      [LocationSlots]bool
}

// HasAnyToggle reports whether the item is active for at least one
// location.
func (r Row) HasAnyToggle() bool {
	for _, t := range r.Toggles {
		if t {
			return true
		}
	}
	return false
}

// Snapshot is the parsed state of the configuration region at read time.
type Snapshot struct {
	Rows []Row
	// ActiveLocationColumns holds the 0-based toggle slots that are active
	// in at least one row.
	ActiveLocationColumns []int
	// ItemsCount is the number of rows with at least one toggle set;
	// LocationsCount the number of active location columns.
	ItemsCount     int
	LocationsCount int
	// SectionLocations maps each section to the location display names
	// read from its header row.
	SectionLocations map[Section][]string
}

// Reader parses the canonical configuration region. Read-only: it never
// writes to the document.
type Reader struct {
	backend       sheets.Backend
	spreadsheetID string
}

func NewReader(backend sheets.Backend, spreadsheetID string) *Reader {
	return &Reader{backend: backend, spreadsheetID: spreadsheetID}
}

// Read scans the configuration region top to bottom, tracking the current
// section as header rows go by. Structural rows are skipped by position;
// remaining rows are kept only if their item id matches the catalog
// pattern.
func (r *Reader) Read(ctx context.Context) (*Snapshot, error) {
	region := sheets.RangeRef(SetupTab, FirstRow, ColItemID, LastRow, ColToolName)
	values, err := r.backend.ReadRange(ctx, r.spreadsheetID, region)
	if err != nil {
		return nil, fmt.Errorf("read setup region: %w", err)
	}

	snap := &Snapshot{SectionLocations: make(map[Section][]string)}
	var columnActive [LocationSlots]bool
	var current Section

	for pos := FirstRow; pos <= LastRow; pos++ {
		cells := rowAt(values, pos-FirstRow)

		if section, ok := SectionAt(pos); ok {
			current = section
			snap.SectionLocations[section] = locationNames(cells)
			continue
		}
		if RoleOf(pos) != RoleItem {
			continue
		}

		itemID := strings.TrimSpace(field(cells, ColItemID))
		if !ValidItemID(itemID) {
			continue
		}

		row := Row{
			Position:     pos,
			ItemID:       itemID,
			Section:      current,
			Scope:        strings.TrimSpace(field(cells, ColScope)),
			RValue:       strings.TrimSpace(field(cells, ColRValue)),
			Thickness:    strings.TrimSpace(field(cells, ColThickness)),
			MaterialType: strings.TrimSpace(field(cells, ColMaterialType)),
			BidType:      strings.TrimSpace(field(cells, ColBidType)),
			ToolName:     strings.TrimSpace(field(cells, ColToolName)),
		}
		for slot := 0; slot < LocationSlots; slot++ {
			if toggled(field(cells, ColToggleFirst+slot)) {
				row.Toggles[slot] = true
				columnActive[slot] = true
			}
		}
		if row.HasAnyToggle() {
			snap.ItemsCount++
		}
		snap.Rows = append(snap.Rows, row)
	}

	for slot, active := range columnActive {
		if active {
			snap.ActiveLocationColumns = append(snap.ActiveLocationColumns, slot)
		}
	}
	snap.LocationsCount = len(snap.ActiveLocationColumns)
	return snap, nil
}

// toggled implements the cell truthiness rule: non-empty and not a textual
// false or zero.
func toggled(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	switch strings.ToLower(s) {
	case "false", "no", "0":
		return false
	}
	return true
}

// locationNames pulls the location display names a header row carries in
// its toggle slots.
func locationNames(cells []string) []string {
	var names []string
	for slot := 0; slot < LocationSlots; slot++ {
		if name := strings.TrimSpace(field(cells, ColToggleFirst+slot)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// rowAt and field tolerate the short rows the Sheets API returns when
// trailing cells are empty.
func rowAt(values [][]string, i int) []string {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func field(cells []string, col int) string {
	i := col - ColItemID
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}
