// Package scheduler runs periodic ingestion of run inputs from Google Drive.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/smartstockx/backend-go/internal/config"
	"github.com/andresuchdata/smartstockx/backend-go/internal/drive"
	"github.com/andresuchdata/smartstockx/backend-go/internal/engine"
)

// ErrSyncRunning is returned when a sync is requested while one is in progress.
var ErrSyncRunning = errors.New("drive sync already running")

type FolderDownloader interface {
	DownloadFolder(ctx context.Context, opts drive.DownloadOptions) ([]string, error)
}

type RunFilesExecutor interface {
	ExecuteFiles(ctx context.Context, source, inventoryPath, distancePath string) (*engine.RunResult, error)
}

type DriveSyncService struct {
	scheduler  *gocron.Scheduler
	cron       string
	enabled    bool
	options    drive.DownloadOptions
	downloader FolderDownloader
	runs       RunFilesExecutor

	mu               sync.Mutex
	running          bool
	lastCompletedAt  time.Time
	lastCompletedRun string
}

func NewDriveSyncService(cfg *config.Config, downloader FolderDownloader, runs RunFilesExecutor) *DriveSyncService {
	log.Info().
		Str("cron", cfg.Scheduler.Cron).
		Bool("enabled", cfg.Scheduler.Enabled).
		Str("folder_id", cfg.Drive.FolderID).
		Str("folder_path", cfg.Drive.FolderPath).
		Msg("drive sync scheduler configured")

	return &DriveSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		cron:      cfg.Scheduler.Cron,
		enabled:   cfg.Scheduler.Enabled,
		options: drive.DownloadOptions{
			FolderID:    cfg.Drive.FolderID,
			FolderPath:  cfg.Drive.FolderPath,
			DownloadDir: cfg.Drive.DownloadDir,
		},
		downloader: downloader,
		runs:       runs,
	}
}

// Start schedules the sync and stops the scheduler when ctx is cancelled.
func (s *DriveSyncService) Start(ctx context.Context) error {
	if !s.enabled {
		log.Info().Msg("drive sync disabled by configuration")
		return nil
	}

	_, err := s.scheduler.Cron(s.cron).Do(func() {
		if _, err := s.SyncNow(ctx); err != nil && !errors.Is(err, ErrSyncRunning) {
			log.Error().Err(err).Msg("scheduled drive sync failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule drive sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.Info().Msg("stopping drive sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// SyncNow downloads the folder and runs the engine over the newest inputs.
func (s *DriveSyncService) SyncNow(ctx context.Context) (*engine.RunResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	started := time.Now()
	paths, err := s.downloader.DownloadFolder(ctx, s.options)
	if err != nil {
		return nil, fmt.Errorf("download drive folder: %w", err)
	}

	inputs, err := drive.SelectRunInputs(paths)
	if err != nil {
		return nil, err
	}

	result, err := s.runs.ExecuteFiles(ctx, "drive", inputs.Inventory, inputs.Distance)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastCompletedAt = time.Now()
	s.lastCompletedRun = result.RunID
	s.mu.Unlock()

	log.Info().
		Str("run_id", result.RunID).
		Dur("duration", time.Since(started)).
		Msg("drive sync complete")

	return result, nil
}

// LastRun reports the id and completion time of the last successful sync.
func (s *DriveSyncService) LastRun() (string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCompletedRun, s.lastCompletedAt
}
