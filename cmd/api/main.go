package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/smartstockx/backend-go/internal/api"
	"github.com/andresuchdata/smartstockx/backend-go/internal/cache"
	"github.com/andresuchdata/smartstockx/backend-go/internal/config"
	"github.com/andresuchdata/smartstockx/backend-go/internal/drive"
	"github.com/andresuchdata/smartstockx/backend-go/internal/engine"
	"github.com/andresuchdata/smartstockx/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/smartstockx/backend-go/internal/scheduler"
	"github.com/andresuchdata/smartstockx/backend-go/internal/service"
	"github.com/andresuchdata/smartstockx/backend-go/internal/storage"
	"github.com/andresuchdata/smartstockx/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Configure(cfg.App.Env, cfg.App.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB.DB); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Snapshot cache unavailable, continuing without cache")
		snapshotCache = cache.NewNoopSnapshotCache()
	}

	objectStorage, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Object storage unavailable, run inputs will not be archived")
		objectStorage = storage.NewNoop()
	}

	inventoryRepo := postgres.NewInventoryRepository(db)
	transferRepo := postgres.NewTransferRepository(db)
	runRepo := postgres.NewRunRepository(db)

	analyticsService := service.NewAnalyticsService(inventoryRepo, transferRepo, runRepo, snapshotCache, service.AnalyticsOptions(cfg.Analytics))
	runService := service.NewRunService(engine.New(engine.ConfigFrom(cfg.Engine)), runRepo, objectStorage, snapshotCache)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.Scheduler.Enabled {
		startDriveSync(ctx, cfg, runService)
	}

	router := api.NewRouter(&api.Services{Analytics: analyticsService, Runs: runService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func startDriveSync(ctx context.Context, cfg *config.Config, runs *service.RunService) {
	driveService, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Google Drive unavailable, scheduled sync disabled")
		return
	}

	syncService := scheduler.NewDriveSyncService(cfg, drive.NewDownloader(driveService), runs)
	if err := syncService.Start(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to start drive sync scheduler")
	}
}
