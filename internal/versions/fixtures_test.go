package versions

import (
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/sheets"
)

const (
	testDoc      = "takeoff-doc"
	testTemplate = "template-doc"
)

// testEnv wires the engine against a seeded fake backend: a Setup tab
// with three catalog items (RF-101 toggled at slots 0-1, RF-102 untoggled,
// WP-201 toggled at slot 2), a Library tab, and a template document.
type testEnv struct {
	fake    *sheets.Fake
	tracker *Tracker
	factory *Factory
	service *Service
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	f := sheets.NewFake()
	f.AddTab(testDoc, setup.SetupTab)
	f.AddTab(testDoc, setup.LibraryTab)

	f.SetCell(testDoc, setup.SetupTab, 5, setup.ColToggleFirst, "North Tower")
	f.SetCell(testDoc, setup.SetupTab, 5, setup.ColToggleFirst+1, "South Tower")

	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColItemID, "RF-101")
	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColScope, "Tear-off and replace")
	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColRValue, "R-30")
	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColThickness, "5.2")
	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColMaterialType, "TPO")
	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColBidType, "Base")
	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColToggleFirst, "x")
	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColToggleFirst+1, "x")

	f.SetCell(testDoc, setup.SetupTab, 7, setup.ColItemID, "RF-102")

	f.SetCell(testDoc, setup.SetupTab, 15, setup.ColToggleFirst+2, "Garage")
	f.SetCell(testDoc, setup.SetupTab, 16, setup.ColItemID, "WP-201")
	f.SetCell(testDoc, setup.SetupTab, 16, setup.ColToggleFirst+2, "yes")

	f.AddTab(testTemplate, "Template")
	f.SetCell(testTemplate, "Template", 2, 1, "Takeoff")

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reader := setup.NewReader(f, testDoc)
	tracker := NewTracker(f, testDoc, log)
	factory := NewFactory(f, testDoc, testTemplate, "Template", reader, log)
	service := NewService(f, testDoc, factory, tracker, log)
	service.now = func() time.Time { return jan2 }
	return &testEnv{fake: f, tracker: tracker, factory: factory, service: service}
}

// seedLedger writes an entry directly into the ledger region.
func seedLedger(f *sheets.Fake, slot int, active bool, name, created string, items, locations int, status string) {
	row := setup.LedgerFirstRow + slot - 1
	flag := "FALSE"
	if active {
		flag = "TRUE"
	}
	f.SetCell(testDoc, setup.SetupTab, row, setup.ColLedgerActive, flag)
	f.SetCell(testDoc, setup.SetupTab, row, setup.ColLedgerSheetName, name)
	f.SetCell(testDoc, setup.SetupTab, row, setup.ColLedgerCreated, created)
	f.SetCell(testDoc, setup.SetupTab, row, setup.ColLedgerItems, itoa(items))
	f.SetCell(testDoc, setup.SetupTab, row, setup.ColLedgerLocations, itoa(locations))
	f.SetCell(testDoc, setup.SetupTab, row, setup.ColLedgerStatus, status)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// ledgerCell reads one ledger cell back.
func ledgerCell(f *sheets.Fake, slot, col int) string {
	return f.Cell(testDoc, setup.SetupTab, setup.LedgerFirstRow+slot-1, col)
}
