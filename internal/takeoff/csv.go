package takeoff

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bcarsten/takeoffvc/internal/setup"
)

// Measurement is one scanned takeoff quantity for an item at a location.
type Measurement struct {
	ItemID   string
	Location int // 1-based location slot
	Quantity float64
}

// ParseResult separates usable measurements from per-row problems. Bad
// rows never fail the whole file; they are reported back to the caller.
type ParseResult struct {
	Measurements []Measurement
	RowErrors    []string
}

// Parse reads a measurement CSV with the header item_id,location,quantity.
// Header matching is case-insensitive and extra columns are ignored.
func Parse(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for i, record := range records[1:] {
		line := i + 2 // 1-indexed, after the header
		m, err := parseRow(record, cols)
		if err != nil {
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		result.Measurements = append(result.Measurements, m)
	}
	return result, nil
}

type columns struct {
	itemID, location, quantity int
}

func headerIndex(header []string) (columns, error) {
	cols := columns{itemID: -1, location: -1, quantity: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "item_id":
			cols.itemID = i
		case "location":
			cols.location = i
		case "quantity":
			cols.quantity = i
		}
	}
	if cols.itemID < 0 || cols.location < 0 || cols.quantity < 0 {
		return cols, fmt.Errorf("csv header must contain item_id, location, and quantity")
	}
	return cols, nil
}

func parseRow(record []string, cols columns) (Measurement, error) {
	get := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	itemID := get(cols.itemID)
	if !setup.ValidItemID(itemID) {
		return Measurement{}, fmt.Errorf("invalid item id %q", itemID)
	}

	location, err := strconv.Atoi(get(cols.location))
	if err != nil || location < 1 || location > setup.LocationSlots {
		return Measurement{}, fmt.Errorf("location must be 1-%d, got %q", setup.LocationSlots, get(cols.location))
	}

	quantity, err := strconv.ParseFloat(get(cols.quantity), 64)
	if err != nil {
		return Measurement{}, fmt.Errorf("invalid quantity %q", get(cols.quantity))
	}

	return Measurement{ItemID: itemID, Location: location, Quantity: quantity}, nil
}
