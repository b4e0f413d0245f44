package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Google Sheets
	CredentialsFile       string
	SpreadsheetID         string
	TemplateSpreadsheetID string
	TemplateTab           string

	// Upload limits
	MaxUploadBytes int64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("TAKEOFFVC_API_KEY"),

		CredentialsFile:       os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		SpreadsheetID:         os.Getenv("SPREADSHEET_ID"),
		TemplateSpreadsheetID: os.Getenv("TEMPLATE_SPREADSHEET_ID"),
		TemplateTab:           envOr("TEMPLATE_TAB", "Template"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TAKEOFFVC_API_KEY is required")
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID is required")
	}
	if c.TemplateSpreadsheetID == "" {
		return fmt.Errorf("TEMPLATE_SPREADSHEET_ID is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
