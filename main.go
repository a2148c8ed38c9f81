package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"no-homers/config"
	"no-homers/database"
	"no-homers/handlers"
	"no-homers/logging"
	"no-homers/middleware"
	"no-homers/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	defer logging.Sync()
	cfg.LogConfiguration()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Errorf("Failed to close database: %v", err)
		}
	}()

	seeds, err := services.ParseSeedUsers(cfg.App.Pickers, cfg.App.AdminPickers)
	if err != nil {
		logging.Fatalf("Invalid PICKERS: %v", err)
	}
	if err := services.NewUserSeeder(store.Users).SeedUsers(seeds, cfg.Auth.SeedPassword); err != nil {
		logging.Errorf("Failed to seed users: %v", err)
	}

	authService := services.NewAuthService(store.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	linesService := services.NewLinesService(store.Lines)
	pickService := services.NewPickService(store.Picks, linesService, services.NewDraftStore())
	scoringService := services.NewScoringService(store.Picks, linesService)
	userService := services.NewUserService(store.Users)
	espn := services.NewESPNService(cfg.App.ESPNBaseURL)
	importer := services.NewLineImporter(espn, store.Lines)

	if cfg.App.ImportOnStart {
		updater := services.NewBackgroundUpdater(importer, linesService, cfg.App.CurrentSeason, cfg.App.CurrentWeek, cfg.App.ImportEvery)
		updater.Start(ctx)
		defer updater.Stop()
	}

	router := handlers.Router{
		Auth:        handlers.NewAuthHandler(authService, cfg.Server.BehindProxy, cfg.Auth.TokenExpiry),
		Picks:       handlers.NewPickHandler(pickService),
		Games:       handlers.NewGameHandler(linesService, importer),
		Scores:      handlers.NewScoreHandler(scoringService, userService),
		Health:      handlers.NewHealthHandler(store, espn),
		AuthMW:      middleware.NewAuthMiddleware(authService, cfg.App.AdminPickers),
		BehindProxy: cfg.Server.BehindProxy,
	}

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("Graceful shutdown failed: %v", err)
	}
}
