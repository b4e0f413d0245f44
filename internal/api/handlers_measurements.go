package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bcarsten/takeoffvc/internal/takeoff"
)

// handleImportMeasurements accepts a measurement CSV upload and writes the
// quantities into the named version tab.
func (s *Server) handleImportMeasurements(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	parsed, err := takeoff.Parse(file)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.importer.Apply(r.Context(), name, parsed.Measurements)
	if err != nil {
		s.operationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"written":    result.Written,
		"skipped":    result.Skipped,
		"row_errors": parsed.RowErrors,
	})
}
