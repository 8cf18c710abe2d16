package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"studyhub/backend/internal/config"
	"studyhub/backend/internal/db"
	"studyhub/backend/internal/handler"
	"studyhub/backend/internal/metrics"
	"studyhub/backend/internal/middleware"
	"studyhub/backend/internal/notify"
	"studyhub/backend/internal/repository"
	"studyhub/backend/internal/router"
	"studyhub/backend/internal/search"
	"studyhub/backend/internal/service"
)

func newServeCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// One server instance per data directory.
	lock := flock.New(filepath.Join(cfg.DataDir, "studyhub.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another studyhub instance is already running")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	notifier := notify.NewService(cfg.NtfyEndpoint, time.Duration(cfg.NtfyTimeoutSeconds)*time.Second)

	userRepo := repository.NewUserRepository(database)
	stateRepo := repository.NewStateRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	authService := service.NewAuthService(userRepo, stateRepo, cfg.JWTSecret, cfg.TokenTTL)
	studyService := service.NewStudyService(stateRepo, sessionRepo, notifier, collector, logger)
	studyService.StartTicker()
	defer studyService.Close()

	provider := search.NewFeedProvider(
		time.Duration(cfg.SearchTimeoutSeconds)*time.Second,
		cfg.SearchFetchesPerMin,
		collector,
	)

	engine := router.New(router.Deps{
		AuthService:      authService,
		AuthHandler:      handler.NewAuthHandler(authService),
		TimerHandler:     handler.NewTimerHandler(studyService),
		QueueHandler:     handler.NewQueueHandler(studyService),
		FocusHandler:     handler.NewFocusHandler(studyService),
		WidgetHandler:    handler.NewWidgetHandler(studyService),
		AnalyticsHandler: handler.NewAnalyticsHandler(studyService),
		SearchHandler:    handler.NewSearchHandler(provider),
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		Gatherer:         registry,
		CORSOrigins:      cfg.CORSOrigins,
	})

	logger.Info("listening", "port", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
