package versions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/sheets"
)

// protectedTabs are never deleted or renamed, compared case-insensitively.
var protectedTabs = map[string]bool{
	strings.ToLower(setup.SetupTab):   true,
	strings.ToLower(setup.LibraryTab): true,
}

func isProtected(name string) bool {
	return protectedTabs[strings.ToLower(name)]
}

// DeleteResult is the structured outcome of a guarded delete. Refusals
// come back as Deleted=false with a reason, not as errors; only technical
// failures surface as errors.
type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	Reason  string `json:"reason,omitempty"`
}

// Service sequences the multi-step version operations. It is the only
// component that chains factory and tracker calls, and none of those
// chains are atomic: a failure mid-sequence leaves the document in its
// last-mutated state for the caller to see.
type Service struct {
	backend       sheets.Backend
	spreadsheetID string
	factory       *Factory
	tracker       *Tracker
	log           *slog.Logger
	now           func() time.Time
}

func NewService(backend sheets.Backend, spreadsheetID string, factory *Factory, tracker *Tracker, log *slog.Logger) *Service {
	return &Service{
		backend:       backend,
		spreadsheetID: spreadsheetID,
		factory:       factory,
		tracker:       tracker,
		log:           log,
		now:           time.Now,
	}
}

// List returns the ledger alongside the live tab list.
func (s *Service) List(ctx context.Context) ([]Entry, []sheets.Tab, error) {
	entries, err := s.tracker.ReadLedger(ctx)
	if err != nil {
		return nil, nil, err
	}
	tabs, err := s.backend.ListTabs(ctx, s.spreadsheetID)
	if err != nil {
		return nil, nil, err
	}
	return entries, tabs, nil
}

// Create builds a new version from the template and registers it as the
// active ledger entry. If the ledger write fails after the tab was
// created, the orphan tab is left in place and the error says so; there
// is no rollback.
func (s *Service) Create(ctx context.Context, projectName string) (*CreateResult, error) {
	created, err := s.factory.FromTemplate(ctx, projectName, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.tracker.AddEntry(ctx, created.Name, created.ItemsCount, created.LocationsCount, s.now()); err != nil {
		return nil, fmt.Errorf("version tab %q was created but its ledger entry was not: %w", created.Name, err)
	}
	return created, nil
}

// Duplicate copies an existing version. Registering the copy in the
// ledger is the caller's explicit choice; the reference behavior is to
// leave duplicates untracked.
func (s *Service) Duplicate(ctx context.Context, sourceName string, track bool) (*Version, error) {
	dup, err := s.factory.Duplicate(ctx, sourceName, s.now())
	if err != nil {
		return nil, err
	}
	if track {
		snap, err := s.factory.reader.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("duplicate %q exists but was not tracked: %w", dup.Name, err)
		}
		if _, err := s.tracker.AddEntry(ctx, dup.Name, snap.ItemsCount, snap.LocationsCount, s.now()); err != nil {
			return nil, fmt.Errorf("duplicate %q exists but was not tracked: %w", dup.Name, err)
		}
	}
	return dup, nil
}

// Activate marks the named version as the single active one.
func (s *Service) Activate(ctx context.Context, name string) error {
	return s.tracker.SetActive(ctx, name)
}

// SetStatus advances the ledger status of a version, validating the
// transition against the closed status set.
func (s *Service) SetStatus(ctx context.Context, name string, next Status) error {
	entries, err := s.tracker.ReadLedger(ctx)
	if err != nil {
		return err
	}
	var current *Entry
	for i := range entries {
		if entries[i].SheetName == name {
			current = &entries[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("ledger entry %q: %w", name, ErrNotFound)
	}
	if current.Status == next {
		return nil
	}
	if !current.Status.CanTransition(next) {
		return &PreconditionError{
			Reason: fmt.Sprintf("cannot change status of %q from %q to %q", name, current.Status, next),
		}
	}
	return s.tracker.UpdateStatus(ctx, name, next)
}

// Rename gives a version tab a new name and keeps its ledger entry in
// step. Collisions and protected names are refused.
func (s *Service) Rename(ctx context.Context, oldName, newName string) error {
	if isProtected(oldName) {
		return &PreconditionError{Reason: fmt.Sprintf("tab %q is protected", oldName)}
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return &PreconditionError{Reason: "new name must not be empty"}
	}
	tabs, err := s.backend.ListTabs(ctx, s.spreadsheetID)
	if err != nil {
		return err
	}
	if _, exists := findTab(tabs, newName); exists {
		return &PreconditionError{Reason: fmt.Sprintf("a tab named %q already exists", newName)}
	}
	tab, ok := findTab(tabs, oldName)
	if !ok {
		return fmt.Errorf("version %q: %w", oldName, ErrNotFound)
	}
	if err := s.backend.RenameTab(ctx, s.spreadsheetID, tab.ID, newName); err != nil {
		return err
	}
	if err := s.tracker.RenameEntry(ctx, oldName, newName); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Delete removes a version tab after its safety checks pass, then blanks
// the matching ledger slot. Check order is fixed: last-remaining-version
// first (regardless of force), protected names second, then the
// best-effort "has data" scan of the measurement block unless forced.
func (s *Service) Delete(ctx context.Context, name string, force bool) (*DeleteResult, error) {
	tabs, err := s.backend.ListTabs(ctx, s.spreadsheetID)
	if err != nil {
		return nil, err
	}
	// Resolved case-insensitively, like the protection rule below.
	tab, ok := findTabFold(tabs, name)
	if !ok {
		return nil, fmt.Errorf("version %q: %w", name, ErrNotFound)
	}
	name = tab.Name

	if !isProtected(name) && countNonProtected(tabs) <= 1 {
		return &DeleteResult{Reason: "cannot delete the last remaining version"}, nil
	}
	if isProtected(name) {
		return &DeleteResult{Reason: fmt.Sprintf("tab %q is protected", name)}, nil
	}
	if !force {
		hasData, err := s.tabHasData(ctx, name)
		if err != nil {
			return nil, err
		}
		if hasData {
			return &DeleteResult{
				Reason: fmt.Sprintf("version %q has data in its measurement block; pass force to delete anyway", name),
			}, nil
		}
	}

	if err := s.backend.DeleteTab(ctx, s.spreadsheetID, tab.ID); err != nil {
		return nil, err
	}
	if err := s.tracker.ClearEntry(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	s.log.Info("deleted version", "name", name, "forced", force)
	return &DeleteResult{Deleted: true}, nil
}

// tabHasData scans the fixed measurement block for any non-empty,
// non-zero cell. A coarse heuristic: data outside the block is not seen.
func (s *Service) tabHasData(ctx context.Context, name string) (bool, error) {
	region := sheets.RangeRef(name, setup.FirstRow, setup.ColToggleFirst,
		setup.LastRow, setup.ColToggleFirst+setup.LocationSlots-1)
	values, err := s.backend.ReadRange(ctx, s.spreadsheetID, region)
	if err != nil {
		return false, fmt.Errorf("scan %q for data: %w", name, err)
	}
	for _, row := range values {
		for _, cell := range row {
			if cellHasData(cell) {
				return true, nil
			}
		}
	}
	return false, nil
}

func cellHasData(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && n == 0 {
		return false
	}
	return true
}

func findTabFold(tabs []sheets.Tab, name string) (sheets.Tab, bool) {
	for _, t := range tabs {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return sheets.Tab{}, false
}

func countNonProtected(tabs []sheets.Tab) int {
	n := 0
	for _, t := range tabs {
		if !isProtected(t.Name) {
			n++
		}
	}
	return n
}
