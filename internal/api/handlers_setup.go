package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bcarsten/takeoffvc/internal/report"
	"github.com/bcarsten/takeoffvc/internal/versions"
)

// handleSetupSnapshot exposes the parsed configuration to the dashboard.
func (s *Server) handleSetupSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.reader.Read(r.Context())
	if err != nil {
		jsonError(w, "failed to read setup: "+err.Error(), http.StatusBadGateway)
		return
	}

	rows := make([]map[string]any, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		rows = append(rows, map[string]any{
			"position":      row.Position,
			"item_id":       row.ItemID,
			"section":       row.Section,
			"scope":         row.Scope,
			"r_value":       row.RValue,
			"thickness":     row.Thickness,
			"material_type": row.MaterialType,
			"bid_type":      row.BidType,
			"tool_name":     row.ToolName,
			"toggles":       row.Toggles,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":                    rows,
		"active_location_columns": snap.ActiveLocationColumns,
		"items_count":             snap.ItemsCount,
		"locations_count":         snap.LocationsCount,
		"section_locations":       snap.SectionLocations,
	})
}

// handleVersionReport renders a summary of one version as markdown or
// HTML.
func (s *Server) handleVersionReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	entries, err := s.tracker.ReadLedger(r.Context())
	if err != nil {
		jsonError(w, "failed to read ledger: "+err.Error(), http.StatusBadGateway)
		return
	}
	var entry *versions.Entry
	for i := range entries {
		if entries[i].SheetName == name {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		jsonError(w, "no ledger entry for "+name, http.StatusNotFound)
		return
	}

	snap, err := s.reader.Read(r.Context())
	if err != nil {
		jsonError(w, "failed to read setup: "+err.Error(), http.StatusBadGateway)
		return
	}

	md := report.Markdown(*entry, snap)
	if r.URL.Query().Get("format") == "html" {
		html, err := report.HTML(md)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}
