package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

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

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (defaults to the configured database)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	cfg := config.Load()
	logger.Configure(cfg.App.Env, cfg.App.LogLevel)
	if c.IsSet("log-level") {
		logger.SetLevel(c.String("log-level"))
	}

	dsn := c.String("db-url")
	if dsn == "" {
		dsn = postgres.DSN(&cfg.Database)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *postgres.DB {
	return postgres.WrapDB(c.Context.Value(dbKey).(*sql.DB), "pgx")
}

func main() {
	app := &cli.App{
		Name:  "smartstock",
		Usage: "Inventory risk and transfer prioritization engine",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{Name: "log-level", Usage: "Override LOG_LEVEL for this invocation"},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply database migrations",
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					if err := postgres.RunMigrations(c.Context.Value(dbKey).(*sql.DB)); err != nil {
						return err
					}
					logger.Log.Info().Msg("migrations applied")
					return nil
				},
			},
			{
				Name:  "run",
				Usage: "Score an inventory file and store the run",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "inventory", Usage: "Inventory CSV or XLSX file", Required: true},
					&cli.StringFlag{Name: "distance", Usage: "Store distance CSV or XLSX file", Required: true},
				},
				Before: initDB,
				After:  closeDB,
				Action: runEngine,
			},
			{
				Name:  "analyze",
				Usage: "Print the portfolio snapshot of the latest run as JSON",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "top-n", Usage: "Size of the demand ranking"},
					&cli.StringFlag{Name: "ranking", Usage: "input_order or by_demand"},
					&cli.StringFlag{Name: "zero-stock", Usage: "zero or fail"},
				},
				Before: initDB,
				After:  closeDB,
				Action: analyze,
			},
			{
				Name:  "replay",
				Usage: "Restore the archived inputs of a run from object storage and run them again",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "run", Usage: "Run id to replay (YYYYMMDD_HHMMSS)", Required: true},
					&cli.StringFlag{Name: "dir", Usage: "Where to restore the inputs (defaults to APP_DATA_DIR)"},
				},
				Before: initDB,
				After:  closeDB,
				Action: replay,
			},
			{
				Name:   "sync-drive",
				Usage:  "Download the configured Google Drive folder and run the engine once",
				Before: initDB,
				After:  closeDB,
				Action: syncDrive,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("smartstock failed")
	}
}

func newRunService(cfg *config.Config, db *postgres.DB) (*service.RunService, error) {
	objectStorage, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, err
	}
	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	return service.NewRunService(
		engine.New(engine.ConfigFrom(cfg.Engine)),
		postgres.NewRunRepository(db),
		objectStorage,
		snapshotCache,
	), nil
}

func runEngine(c *cli.Context) error {
	cfg := config.Load()
	runs, err := newRunService(cfg, dbFrom(c))
	if err != nil {
		return err
	}

	result, err := runs.ExecuteFiles(c.Context, "cli", c.String("inventory"), c.String("distance"))
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d inventory rows, %d transfers\n", result.RunID, len(result.Inventory), len(result.Transfers))
	return nil
}

func analyze(c *cli.Context) error {
	cfg := config.Load()
	analyticsCfg := cfg.Analytics
	if c.IsSet("top-n") {
		analyticsCfg.TopN = c.Int("top-n")
	}
	if c.IsSet("ranking") {
		analyticsCfg.DemandRanking = c.String("ranking")
	}
	if c.IsSet("zero-stock") {
		analyticsCfg.ZeroStockPolicy = c.String("zero-stock")
	}

	db := dbFrom(c)
	svc := service.NewAnalyticsService(
		postgres.NewInventoryRepository(db),
		postgres.NewTransferRepository(db),
		postgres.NewRunRepository(db),
		cache.NewNoopSnapshotCache(),
		service.AnalyticsOptions(analyticsCfg),
	)

	snapshot, err := svc.Portfolio(c.Context)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}

func replay(c *cli.Context) error {
	cfg := config.Load()
	runs, err := newRunService(cfg, dbFrom(c))
	if err != nil {
		return err
	}

	dir := c.String("dir")
	if dir == "" {
		dir = cfg.App.DataDir
	}

	result, err := runs.Replay(c.Context, c.String("run"), dir)
	if err != nil {
		return err
	}

	fmt.Printf("run %s replayed as %s: %d inventory rows, %d transfers\n", c.String("run"), result.RunID, len(result.Inventory), len(result.Transfers))
	return nil
}

func syncDrive(c *cli.Context) error {
	cfg := config.Load()
	runs, err := newRunService(cfg, dbFrom(c))
	if err != nil {
		return err
	}

	driveService, err := drive.NewService(c.Context, cfg.Drive.CredentialsJSON)
	if err != nil {
		return err
	}

	result, err := scheduler.NewDriveSyncService(cfg, drive.NewDownloader(driveService), runs).SyncNow(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("run %s synced from drive: %d inventory rows, %d transfers\n", result.RunID, len(result.Inventory), len(result.Transfers))
	return nil
}
