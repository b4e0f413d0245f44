package takeoff

import (
	"context"
	"fmt"

	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/sheets"
	"github.com/bcarsten/takeoffvc/internal/versions"
)

// ApplyResult reports what an import wrote and which measurements were
// skipped.
type ApplyResult struct {
	Written int      `json:"written"`
	Skipped []string `json:"skipped,omitempty"`
}

// Importer writes parsed measurements into a version tab's measurement
// block.
type Importer struct {
	backend       sheets.Backend
	spreadsheetID string
	reader        *setup.Reader
}

func NewImporter(backend sheets.Backend, spreadsheetID string, reader *setup.Reader) *Importer {
	return &Importer{backend: backend, spreadsheetID: spreadsheetID, reader: reader}
}

// Apply resolves each measurement against the current configuration
// snapshot and batch-writes quantities at the item's row position.
// Measurements for items missing from the configuration are skipped, not
// fatal. Later rows for the same cell overwrite earlier ones.
func (im *Importer) Apply(ctx context.Context, versionName string, ms []Measurement) (*ApplyResult, error) {
	tabs, err := im.backend.ListTabs(ctx, im.spreadsheetID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, t := range tabs {
		if t.Name == versionName {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("version %q: %w", versionName, versions.ErrNotFound)
	}

	snap, err := im.reader.Read(ctx)
	if err != nil {
		return nil, err
	}
	rowByItem := make(map[string]int, len(snap.Rows))
	for _, row := range snap.Rows {
		rowByItem[row.ItemID] = row.Position
	}

	result := &ApplyResult{}
	cells := make(map[string]float64)
	for _, m := range ms {
		position, ok := rowByItem[m.ItemID]
		if !ok {
			result.Skipped = append(result.Skipped,
				fmt.Sprintf("item %q is not in the configuration", m.ItemID))
			continue
		}
		ref := sheets.CellRef(versionName, position, setup.ColToggleFirst+m.Location-1)
		cells[ref] = m.Quantity
	}

	writes := make([]sheets.RangeWrite, 0, len(cells))
	for ref, qty := range cells {
		writes = append(writes, sheets.RangeWrite{Range: ref, Values: [][]any{{qty}}})
	}
	if err := im.backend.WriteRanges(ctx, im.spreadsheetID, writes); err != nil {
		return nil, fmt.Errorf("write measurements to %q: %w", versionName, err)
	}
	result.Written = len(writes)
	return result, nil
}
