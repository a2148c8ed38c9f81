package main

import (
	"context"
	"flag"
	"os"

	"no-homers/config"
	"no-homers/database"
	"no-homers/logging"
	"no-homers/services"
)

func main() {
	file := flag.String("file", "", "picks export (CSV with season,week,game_id,team_picked,pick_type,spread,picker)")
	flag.Parse()

	logging.Info("=== Legacy Picks Import ===")
	if *file == "" {
		logging.Fatal("--file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	defer logging.Sync()

	f, err := os.Open(*file)
	if err != nil {
		logging.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer store.Close()

	summary, err := services.NewLegacyImportService(store.Picks).ImportPicksCSV(ctx, f)
	if err != nil {
		logging.Fatalf("Import failed: %v", err)
	}
	logging.Infof("Done: %d rows, %d skipped, %d picker weeks, %d weeks rejected", summary.Rows, summary.Skipped, summary.Weeks, summary.Rejected)
}
