package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bcarsten/takeoffvc/internal/config"
	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/takeoff"
	"github.com/bcarsten/takeoffvc/internal/versions"
)

// Server is the HTTP API over the version lifecycle.
type Server struct {
	router   chi.Router
	service  *versions.Service
	tracker  *versions.Tracker
	reader   *setup.Reader
	importer *takeoff.Importer
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(service *versions.Service, tracker *versions.Tracker, reader *setup.Reader, importer *takeoff.Importer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		service:  service,
		tracker:  tracker,
		reader:   reader,
		importer: importer,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey))

		r.Get("/api/setup", s.handleSetupSnapshot)

		r.Get("/api/versions", s.handleListVersions)
		r.Post("/api/versions", s.handleCreateVersion)
		r.Post("/api/versions/{name}/duplicate", s.handleDuplicateVersion)
		r.Post("/api/versions/{name}/activate", s.handleActivateVersion)
		r.Post("/api/versions/{name}/rename", s.handleRenameVersion)
		r.Post("/api/versions/{name}/status", s.handleSetStatus)
		r.Delete("/api/versions/{name}", s.handleDeleteVersion)
		r.Get("/api/versions/{name}/report", s.handleVersionReport)
		r.Post("/api/versions/{name}/measurements", s.handleImportMeasurements)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
