package setup

import "regexp"

// The canonical configuration lives on the Setup tab in a fixed layout
// (layout version 1). Everything in this file is positional: structural
// rows are identified by row number, never by cell content.

const (
	// SetupTab holds the canonical configuration and the version ledger.
	SetupTab = "Setup"
	// LibraryTab holds the item catalog. Never deleted, never projected.
	LibraryTab = "Library"
)

// Configuration region bounds on the Setup tab, rows 1-based inclusive.
const (
	FirstRow = 5
	LastRow  = 45
)

// Column numbers (1-based) of the configuration region.
const (
	ColItemID       = 2  // B
	ColUnitCost     = 3  // C
	ColScope        = 4  // D
	ColRValue       = 5  // E
	ColThickness    = 6  // F
	ColMaterialType = 7  // G
	ColToggleFirst  = 8  // H, first of the location-toggle block
	ColUnitOfMeas   = 15 // O
	ColBidType      = 16 // P
	ColToolName     = 17 // Q
)

// LocationSlots is the width of the location-toggle block (columns H-N).
const LocationSlots = 7

// Version tab layout: the project name header cell and the measurement
// block inspected by the pre-delete "has data" check.
const (
	ProjectNameRow = 1
	ProjectNameCol = 2 // B1
)

// Ledger region on the Setup tab: one header row, seven data rows.
const (
	LedgerHeaderRow = 2
	LedgerFirstRow  = 3
	LedgerSlots     = 7

	ColLedgerActive    = 19 // S
	ColLedgerSheetName = 20 // T
	ColLedgerCreated   = 21 // U
	ColLedgerItems     = 22 // V
	ColLedgerLocations = 23 // W
	ColLedgerStatus    = 24 // X
)

// Section identifies the configuration block an item row belongs to.
type Section string

const (
	SectionRoofing       Section = "ROOFING"
	SectionWaterproofing Section = "WATERPROOFING"
	SectionBalconies     Section = "BALCONIES"
	SectionExterior      Section = "EXTERIOR"
)

// RowRole tags the fixed structural layout of the configuration region.
type RowRole int

const (
	RoleItem RowRole = iota
	RoleHeader
	RoleSubtotal
	RoleTotal
)

var sectionHeaderRows = map[int]Section{
	5:  SectionRoofing,
	15: SectionWaterproofing,
	25: SectionBalconies,
	35: SectionExterior,
}

var subtotalRows = map[int]bool{14: true, 24: true, 34: true, 44: true}

const grandTotalRow = 45

// RoleOf resolves the structural role of a row position.
func RoleOf(row int) RowRole {
	switch {
	case sectionHeaderRows[row] != "":
		return RoleHeader
	case subtotalRows[row]:
		return RoleSubtotal
	case row == grandTotalRow:
		return RoleTotal
	default:
		return RoleItem
	}
}

// SectionAt returns the section whose header sits at the given row.
func SectionAt(row int) (Section, bool) {
	s, ok := sectionHeaderRows[row]
	return s, ok
}

// itemIDPattern matches catalog line-item ids such as "RF-101".
var itemIDPattern = regexp.MustCompile(`^[A-Z]{2,3}-\d{3}$`)

// ValidItemID reports whether a cell holds a well-formed catalog id.
func ValidItemID(s string) bool {
	return itemIDPattern.MatchString(s)
}
