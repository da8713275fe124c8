package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/franalderete7/expenzo-sub000/internal/config"
	"github.com/franalderete7/expenzo-sub000/internal/indices"
	applog "github.com/franalderete7/expenzo-sub000/internal/log"
	"github.com/franalderete7/expenzo-sub000/internal/services"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

// index-sync pulls ICL and IPC values from the configured spreadsheet
// and upserts them into the local database. Run it from cron or by hand.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentIndexSync})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for index sync")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	reader, err := indices.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	values, err := reader.Read(ctx)
	if err != nil {
		logger.Error("Failed to read index values", "error", err)
		os.Exit(1)
	}

	count, err := services.NewIndexService(store).Import(ctx, values)
	if err != nil {
		logger.Error("Index import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Index sync complete", "imported", count, "spreadsheet_id", cfg.GoogleSpreadsheetID)
}
