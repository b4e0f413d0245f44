package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bcarsten/takeoffvc/internal/api"
	"github.com/bcarsten/takeoffvc/internal/config"
	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/sheets"
	"github.com/bcarsten/takeoffvc/internal/takeoff"
	"github.com/bcarsten/takeoffvc/internal/versions"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the Sheets backend.
	backend, err := sheets.NewGoogle(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Error("failed to create sheets client", "error", err)
		os.Exit(1)
	}

	// Initialize the versioning engine.
	reader := setup.NewReader(backend, cfg.SpreadsheetID)
	tracker := versions.NewTracker(backend, cfg.SpreadsheetID, log)
	factory := versions.NewFactory(backend, cfg.SpreadsheetID, cfg.TemplateSpreadsheetID, cfg.TemplateTab, reader, log)
	service := versions.NewService(backend, cfg.SpreadsheetID, factory, tracker, log)
	importer := takeoff.NewImporter(backend, cfg.SpreadsheetID, reader)

	// Initialize HTTP server.
	srv := api.NewServer(service, tracker, reader, importer, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting takeoffvc", "port", cfg.Port, "spreadsheet", cfg.SpreadsheetID)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
