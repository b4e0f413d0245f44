package versions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/sheets"
)

// Version is one snapshot tab of the configuration.
type Version struct {
	Name  string `json:"name"`
	TabID int64  `json:"tab_id"`
}

// CreateResult is a freshly projected version plus the counts captured for
// its ledger entry.
type CreateResult struct {
	Version
	ItemsCount     int `json:"items_count"`
	LocationsCount int `json:"locations_count"`
}

// Factory creates version tabs, either by projecting the canonical
// configuration onto a template copy or by duplicating an existing
// version verbatim.
type Factory struct {
	backend               sheets.Backend
	spreadsheetID         string
	templateSpreadsheetID string
	templateTab           string
	reader                *setup.Reader
	log                   *slog.Logger
}

func NewFactory(backend sheets.Backend, spreadsheetID, templateSpreadsheetID, templateTab string, reader *setup.Reader, log *slog.Logger) *Factory {
	return &Factory{
		backend:               backend,
		spreadsheetID:         spreadsheetID,
		templateSpreadsheetID: templateSpreadsheetID,
		templateTab:           templateTab,
		reader:                reader,
		log:                   log,
	}
}

// FromTemplate copies the template tab into the target document, names it
// after today, and projects the canonical configuration onto it: field
// writes at each retained row position, then visibility. Hiding is a pure
// function of the snapshot, so reapplying it with the same snapshot gives
// the same hidden sets.
func (f *Factory) FromTemplate(ctx context.Context, projectName string, today time.Time) (*CreateResult, error) {
	templateTabs, err := f.backend.ListTabs(ctx, f.templateSpreadsheetID)
	if err != nil {
		return nil, err
	}
	template, ok := findTab(templateTabs, f.templateTab)
	if !ok {
		return nil, fmt.Errorf("template tab %q: %w", f.templateTab, ErrNotFound)
	}

	tabID, err := f.backend.CopyTab(ctx, f.templateSpreadsheetID, template.ID, f.spreadsheetID)
	if err != nil {
		return nil, err
	}

	name, err := f.assignName(ctx, tabID, today)
	if err != nil {
		return nil, err
	}

	snap, err := f.reader.Read(ctx)
	if err != nil {
		return nil, err
	}
	if err := f.project(ctx, name, tabID, projectName, snap); err != nil {
		return nil, err
	}

	f.log.Info("created version from template",
		"name", name, "items", snap.ItemsCount, "locations", snap.LocationsCount)
	return &CreateResult{
		Version:        Version{Name: name, TabID: tabID},
		ItemsCount:     snap.ItemsCount,
		LocationsCount: snap.LocationsCount,
	}, nil
}

// Duplicate copies an existing version tab verbatim, keeping its data,
// formulas, and hidden state. No re-projection happens.
func (f *Factory) Duplicate(ctx context.Context, sourceName string, today time.Time) (*Version, error) {
	tabs, err := f.backend.ListTabs(ctx, f.spreadsheetID)
	if err != nil {
		return nil, err
	}
	source, ok := findTab(tabs, sourceName)
	if !ok {
		return nil, fmt.Errorf("version %q: %w", sourceName, ErrNotFound)
	}

	tabID, err := f.backend.CopyTab(ctx, f.spreadsheetID, source.ID, f.spreadsheetID)
	if err != nil {
		return nil, err
	}
	name, err := f.assignName(ctx, tabID, today)
	if err != nil {
		return nil, err
	}

	f.log.Info("duplicated version", "source", sourceName, "name", name)
	return &Version{Name: name, TabID: tabID}, nil
}

// assignName renames a just-copied tab to a collision-free date name. The
// tab list is re-read here so the check runs as close to the rename as
// this non-transactional backend allows.
func (f *Factory) assignName(ctx context.Context, tabID int64, today time.Time) (string, error) {
	tabs, err := f.backend.ListTabs(ctx, f.spreadsheetID)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(tabs))
	for _, t := range tabs {
		names = append(names, t.Name)
	}
	name := GenerateName(names, today)
	if err := f.backend.RenameTab(ctx, f.spreadsheetID, tabID, name); err != nil {
		return "", err
	}
	return name, nil
}

func (f *Factory) project(ctx context.Context, name string, tabID int64, projectName string, snap *setup.Snapshot) error {
	writes := []sheets.RangeWrite{{
		Range:  sheets.CellRef(name, setup.ProjectNameRow, setup.ProjectNameCol),
		Values: [][]any{{projectName}},
	}}
	for _, row := range snap.Rows {
		writes = append(writes,
			sheets.RangeWrite{
				Range:  sheets.RangeRef(name, row.Position, setup.ColScope, row.Position, setup.ColMaterialType),
				Values: [][]any{{row.Scope, row.RValue, row.Thickness, row.MaterialType}},
			},
			sheets.RangeWrite{
				Range:  sheets.CellRef(name, row.Position, setup.ColBidType),
				Values: [][]any{{row.BidType}},
			},
		)
	}
	if err := f.backend.WriteRanges(ctx, f.spreadsheetID, writes); err != nil {
		return err
	}

	if rows := hiddenRowRanges(snap.Rows); len(rows) > 0 {
		if err := f.backend.HideRows(ctx, f.spreadsheetID, tabID, rows); err != nil {
			return err
		}
	}
	if cols := hiddenColumnRanges(snap.ActiveLocationColumns); len(cols) > 0 {
		if err := f.backend.HideColumns(ctx, f.spreadsheetID, tabID, cols); err != nil {
			return err
		}
	}
	return nil
}

// hiddenRowRanges lists the 0-based dimension ranges of item rows with no
// active toggle. Pure function of the snapshot.
func hiddenRowRanges(rows []setup.Row) []sheets.DimRange {
	var idx []int64
	for _, r := range rows {
		if !r.HasAnyToggle() {
			idx = append(idx, int64(r.Position-1))
		}
	}
	return compress(idx)
}

// hiddenColumnRanges lists the 0-based dimension ranges of toggle columns
// with no active row.
func hiddenColumnRanges(activeSlots []int) []sheets.DimRange {
	active := make(map[int]bool, len(activeSlots))
	for _, s := range activeSlots {
		active[s] = true
	}
	var idx []int64
	for slot := 0; slot < setup.LocationSlots; slot++ {
		if !active[slot] {
			idx = append(idx, int64(setup.ColToggleFirst-1+slot))
		}
	}
	return compress(idx)
}

// compress folds sorted indexes into half-open runs.
func compress(idx []int64) []sheets.DimRange {
	if len(idx) == 0 {
		return nil
	}
	sort.Slice(idx, func(i, j int) bool { return idx[i] < idx[j] })
	var out []sheets.DimRange
	start, end := idx[0], idx[0]+1
	for _, i := range idx[1:] {
		if i == end {
			end++
			continue
		}
		out = append(out, sheets.DimRange{Start: start, End: end})
		start, end = i, i+1
	}
	return append(out, sheets.DimRange{Start: start, End: end})
}

func findTab(tabs []sheets.Tab, name string) (sheets.Tab, bool) {
	for _, t := range tabs {
		if t.Name == name {
			return t, true
		}
	}
	return sheets.Tab{}, false
}
