package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/smartstockx/backend-go/internal/analytics"
	"github.com/andresuchdata/smartstockx/backend-go/internal/cache"
	"github.com/andresuchdata/smartstockx/backend-go/internal/config"
	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
	"github.com/andresuchdata/smartstockx/backend-go/internal/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type AnalyticsService struct {
	inventory repository.InventoryRepository
	transfers repository.TransferRepository
	runs      repository.RunRepository
	cache     cache.SnapshotCache
	opts      analytics.Options
}

func NewAnalyticsService(
	inventory repository.InventoryRepository,
	transfers repository.TransferRepository,
	runs repository.RunRepository,
	cacheImpl cache.SnapshotCache,
	opts analytics.Options,
) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSnapshotCache()
	}
	return &AnalyticsService{
		inventory: inventory,
		transfers: transfers,
		runs:      runs,
		cache:     cacheImpl,
		opts:      opts,
	}
}

// AnalyticsOptions maps configuration onto analytics options. Unknown values fall back to defaults.
func AnalyticsOptions(cfg config.AnalyticsConfig) analytics.Options {
	opts := analytics.DefaultOptions()
	if cfg.TopN > 0 {
		opts.TopN = cfg.TopN
	}
	if cfg.DemandRanking == string(analytics.RankByDemand) {
		opts.Ranking = analytics.RankByDemand
	}
	if cfg.ZeroStockPolicy == string(analytics.ZeroStockFail) {
		opts.ZeroStock = analytics.ZeroStockFail
	}
	return opts
}

// Portfolio returns the snapshot of the latest run. Invalid records are excluded
// and reported on the snapshot rather than failing the request.
func (s *AnalyticsService) Portfolio(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	run, err := s.runs.LatestRun(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no run has been ingested: %w", domain.ErrNoAnalytics)
	}
	if err != nil {
		return nil, err
	}

	key := cache.SnapshotKey{
		RunID:     run.ID,
		TopN:      s.opts.TopN,
		Ranking:   string(s.opts.Ranking),
		ZeroStock: string(s.opts.ZeroStock),
	}
	if snapshot, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return snapshot, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get snapshot failed")
	}

	inventory, transfers, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	inventory, transfers, exclusions := analytics.Screen(inventory, transfers)
	if len(exclusions) > 0 {
		log.Warn().Int("excluded", len(exclusions)).Str("run_id", run.ID).Msg("analytics: records excluded from snapshot")
	}

	snapshot, err := analytics.Analyze(inventory, transfers, s.opts)
	if errors.Is(err, domain.ErrEmptyCollection) {
		return nil, fmt.Errorf("run %s has no usable inventory: %w", run.ID, domain.ErrNoAnalytics)
	}
	if err != nil {
		return nil, err
	}
	snapshot.RunID = run.ID
	snapshot.Exclusions = exclusions

	if err := s.cache.Set(ctx, key, &snapshot); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set snapshot failed")
	}

	return &snapshot, nil
}

func (s *AnalyticsService) Stores(ctx context.Context) ([]domain.StorePerformance, error) {
	snapshot, err := s.Portfolio(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.StorePerformance, nil
}

func (s *AnalyticsService) TransferSummary(ctx context.Context) (*domain.TransferSummary, error) {
	transfers, err := s.transfers.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}
	_, transfers, _ = analytics.Screen(nil, transfers)

	summary, err := analytics.SummarizeTransfers(transfers)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *AnalyticsService) InventoryStats(ctx context.Context) (*domain.InventoryStats, error) {
	records, _, err := s.inventory.ListInventory(ctx, domain.InventoryFilter{})
	if err != nil {
		return nil, err
	}
	records, _, _ = analytics.Screen(records, nil)

	stats, err := analytics.InventoryStatistics(records)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AnalyticsService) Inventory(ctx context.Context, filter domain.InventoryFilter) (*domain.InventoryPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	records, total, err := s.inventory.ListInventory(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.InventoryPage{
		Items:    analytics.AnnotateInventory(records),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *AnalyticsService) Transfers(ctx context.Context) ([]domain.TransferItem, error) {
	transfers, err := s.transfers.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.AnnotateTransfers(transfers), nil
}

func (s *AnalyticsService) fetch(ctx context.Context) ([]domain.InventoryRecord, []domain.TransferSuggestion, error) {
	var (
		inventory []domain.InventoryRecord
		transfers []domain.TransferSuggestion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inventory, _, err = s.inventory.ListInventory(gctx, domain.InventoryFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		transfers, err = s.transfers.ListTransfers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load run data: %w", err)
	}

	return inventory, transfers, nil
}
