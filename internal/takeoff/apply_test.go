package takeoff

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/sheets"
	"github.com/bcarsten/takeoffvc/internal/versions"
)

const testDoc = "takeoff-doc"

func newImporter(t *testing.T) (*sheets.Fake, *Importer) {
	t.Helper()
	f := sheets.NewFake()
	f.AddTab(testDoc, setup.SetupTab)
	f.AddTab(testDoc, setup.LibraryTab)
	f.AddTab(testDoc, "2024-01-02")

	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColItemID, "RF-101")
	f.SetCell(testDoc, setup.SetupTab, 6, setup.ColToggleFirst, "x")
	f.SetCell(testDoc, setup.SetupTab, 16, setup.ColItemID, "WP-201")
	f.SetCell(testDoc, setup.SetupTab, 16, setup.ColToggleFirst+2, "x")

	return f, NewImporter(f, testDoc, setup.NewReader(f, testDoc))
}

func TestApplyWritesQuantitiesAtItemRows(t *testing.T) {
	f, im := newImporter(t)
	ms := []Measurement{
		{ItemID: "RF-101", Location: 1, Quantity: 250.5},
		{ItemID: "WP-201", Location: 3, Quantity: 80},
	}

	result, err := im.Apply(context.Background(), "2024-01-02", ms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Written != 2 || len(result.Skipped) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	if got := f.Cell(testDoc, "2024-01-02", 6, setup.ColToggleFirst); got != "250.5" {
		t.Errorf("expected 250.5 at RF-101 slot 1, got %q", got)
	}
	if got := f.Cell(testDoc, "2024-01-02", 16, setup.ColToggleFirst+2); got != "80" {
		t.Errorf("expected 80 at WP-201 slot 3, got %q", got)
	}
}

func TestApplySkipsUnknownItems(t *testing.T) {
	_, im := newImporter(t)
	ms := []Measurement{
		{ItemID: "RF-101", Location: 1, Quantity: 10},
		{ItemID: "XX-999", Location: 1, Quantity: 10},
	}

	result, err := im.Apply(context.Background(), "2024-01-02", ms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Written != 1 {
		t.Errorf("expected 1 write, got %d", result.Written)
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0], "XX-999") {
		t.Errorf("expected XX-999 skipped, got %v", result.Skipped)
	}
}

func TestApplyLastWriteWins(t *testing.T) {
	f, im := newImporter(t)
	ms := []Measurement{
		{ItemID: "RF-101", Location: 1, Quantity: 10},
		{ItemID: "RF-101", Location: 1, Quantity: 20},
	}

	result, err := im.Apply(context.Background(), "2024-01-02", ms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Written != 1 {
		t.Errorf("expected collapsed write, got %d", result.Written)
	}
	if got := f.Cell(testDoc, "2024-01-02", 6, setup.ColToggleFirst); got != "20" {
		t.Errorf("expected 20, got %q", got)
	}
}

func TestApplyMissingVersion(t *testing.T) {
	_, im := newImporter(t)
	_, err := im.Apply(context.Background(), "2020-01-01", nil)
	if !errors.Is(err, versions.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
