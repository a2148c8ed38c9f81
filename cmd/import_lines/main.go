package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"no-homers/config"
	"no-homers/database"
	"no-homers/logging"
	"no-homers/services"
)

func main() {
	source := flag.String("source", "espn", "where to read lines from: espn or file")
	file := flag.String("file", "", "lines file for --source file")
	season := flag.Int("season", 0, "season to import (default CURRENT_SEASON)")
	week := flag.Int("week", 0, "week to import (default CURRENT_WEEK)")
	flag.Parse()

	logging.Info("=== Market Lines Import ===")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	defer logging.Sync()

	if *season == 0 {
		*season = cfg.App.CurrentSeason
	}
	if *week == 0 {
		*week = cfg.App.CurrentWeek
	}

	var feed services.FeedSource
	switch *source {
	case "espn":
		feed = services.NewESPNService(cfg.App.ESPNBaseURL)
	case "file":
		if *file == "" {
			logging.Fatal("--file is required with --source file")
		}
		feed = services.YAMLFileSource{Path: *file}
	default:
		logging.Fatalf("unknown source %q", *source)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := database.Open(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer store.Close()

	summary, err := services.NewLineImporter(feed, store.Lines).Import(ctx, *season, *week)
	if err != nil {
		logging.Fatalf("Import failed: %v", err)
	}
	logging.Infof("Done: %d lines, %d results for %d week %d", summary.Lines, summary.Results, summary.Season, summary.Week)
}
