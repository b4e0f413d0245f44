package setup

import (
	"context"
	"testing"

	"github.com/bcarsten/takeoffvc/internal/sheets"
)

const testDoc = "doc-under-test"

func seededFake(t *testing.T) *sheets.Fake {
	t.Helper()
	f := sheets.NewFake()
	f.AddTab(testDoc, SetupTab)
	f.AddTab(testDoc, LibraryTab)

	// ROOFING header with location names.
	f.SetCell(testDoc, SetupTab, 5, ColToggleFirst, "North Tower")
	f.SetCell(testDoc, SetupTab, 5, ColToggleFirst+1, "South Tower")

	// Item rows under ROOFING.
	f.SetCell(testDoc, SetupTab, 6, ColItemID, "RF-101")
	f.SetCell(testDoc, SetupTab, 6, ColScope, "Tear-off and replace")
	f.SetCell(testDoc, SetupTab, 6, ColRValue, "R-30")
	f.SetCell(testDoc, SetupTab, 6, ColThickness, "5.2")
	f.SetCell(testDoc, SetupTab, 6, ColMaterialType, "TPO")
	f.SetCell(testDoc, SetupTab, 6, ColBidType, "Base")
	f.SetCell(testDoc, SetupTab, 6, ColToolName, "Bluebeam")
	f.SetCell(testDoc, SetupTab, 6, ColToggleFirst, "x")
	f.SetCell(testDoc, SetupTab, 6, ColToggleFirst+1, "1")

	f.SetCell(testDoc, SetupTab, 7, ColItemID, "RF-102")
	// No toggles on RF-102.

	// A row with a malformed item id is ignored.
	f.SetCell(testDoc, SetupTab, 8, ColItemID, "misc notes")
	f.SetCell(testDoc, SetupTab, 8, ColToggleFirst, "x")

	// WATERPROOFING header and one item.
	f.SetCell(testDoc, SetupTab, 15, ColToggleFirst+2, "Garage")
	f.SetCell(testDoc, SetupTab, 16, ColItemID, "WP-201")
	f.SetCell(testDoc, SetupTab, 16, ColToggleFirst+2, "yes")

	return f
}

func TestReadParsesItemRows(t *testing.T) {
	f := seededFake(t)
	r := NewReader(f, testDoc)

	snap, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(snap.Rows))
	}

	first := snap.Rows[0]
	if first.Position != 6 || first.ItemID != "RF-101" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Section != SectionRoofing {
		t.Errorf("expected section ROOFING, got %q", first.Section)
	}
	if first.Scope != "Tear-off and replace" || first.MaterialType != "TPO" {
		t.Errorf("fields not parsed: %+v", first)
	}
	if !first.Toggles[0] || !first.Toggles[1] || first.Toggles[2] {
		t.Errorf("unexpected toggles: %v", first.Toggles)
	}
	if !first.HasAnyToggle() {
		t.Error("expected HasAnyToggle on RF-101")
	}

	if snap.Rows[1].ItemID != "RF-102" || snap.Rows[1].HasAnyToggle() {
		t.Errorf("unexpected second row: %+v", snap.Rows[1])
	}
	if snap.Rows[2].Section != SectionWaterproofing {
		t.Errorf("expected section WATERPROOFING, got %q", snap.Rows[2].Section)
	}
}

func TestReadCounts(t *testing.T) {
	f := seededFake(t)
	snap, err := NewReader(f, testDoc).Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// RF-101 and WP-201 have toggles, RF-102 does not.
	if snap.ItemsCount != 2 {
		t.Errorf("expected items count 2, got %d", snap.ItemsCount)
	}
	// Slots 0, 1 (RF-101) and 2 (WP-201) are active.
	want := []int{0, 1, 2}
	if len(snap.ActiveLocationColumns) != len(want) {
		t.Fatalf("expected active columns %v, got %v", want, snap.ActiveLocationColumns)
	}
	for i, slot := range want {
		if snap.ActiveLocationColumns[i] != slot {
			t.Errorf("expected active columns %v, got %v", want, snap.ActiveLocationColumns)
			break
		}
	}
	if snap.LocationsCount != 3 {
		t.Errorf("expected locations count 3, got %d", snap.LocationsCount)
	}
}

func TestReadSectionLocationNames(t *testing.T) {
	f := seededFake(t)
	snap, err := NewReader(f, testDoc).Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	roofing := snap.SectionLocations[SectionRoofing]
	if len(roofing) != 2 || roofing[0] != "North Tower" || roofing[1] != "South Tower" {
		t.Errorf("unexpected roofing locations: %v", roofing)
	}
	garage := snap.SectionLocations[SectionWaterproofing]
	if len(garage) != 1 || garage[0] != "Garage" {
		t.Errorf("unexpected waterproofing locations: %v", garage)
	}
}

func TestReadSkipsStructuralRowsByPosition(t *testing.T) {
	f := seededFake(t)
	// Plant valid-looking item ids on structural rows. They must still be
	// skipped: structural detection is positional, not content-based.
	for _, row := range []int{5, 14, 15, 24, 25, 34, 35, 44, 45} {
		f.SetCell(testDoc, SetupTab, row, ColItemID, "ZZ-999")
		f.SetCell(testDoc, SetupTab, row, ColToggleFirst, "x")
	}

	snap, err := NewReader(f, testDoc).Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, row := range snap.Rows {
		if RoleOf(row.Position) != RoleItem {
			t.Errorf("structural row %d returned as item", row.Position)
		}
		if row.ItemID == "ZZ-999" {
			t.Errorf("row %d from a structural position returned", row.Position)
		}
	}
}

func TestReadReturnsFreshSnapshot(t *testing.T) {
	f := seededFake(t)
	r := NewReader(f, testDoc)

	before, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.SetCell(testDoc, SetupTab, 7, ColToggleFirst, "x")
	after, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if before.ItemsCount != 2 || after.ItemsCount != 3 {
		t.Errorf("expected counts 2 then 3, got %d then %d", before.ItemsCount, after.ItemsCount)
	}
}

func TestToggledValues(t *testing.T) {
	cases := []struct {
		cell string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"false", false},
		{"FALSE", false},
		{"no", false},
		{"0", false},
		{"x", true},
		{"1", true},
		{"yes", true},
		{"TRUE", true},
		{"12.5", true},
	}
	for _, c := range cases {
		if got := toggled(c.cell); got != c.want {
			t.Errorf("toggled(%q): expected %t, got %t", c.cell, c.want, got)
		}
	}
}
