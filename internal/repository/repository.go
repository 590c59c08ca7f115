package repository

import (
	"context"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// InventoryRepository reads the scored inventory of the latest run.
type InventoryRepository interface {
	// ListInventory returns the page selected by filter and the total match count.
	// A zero PageSize returns every match.
	ListInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryRecord, int, error)
}

type TransferRepository interface {
	ListTransfers(ctx context.Context) ([]domain.TransferSuggestion, error)
}

// RunRepository persists whole runs. Storing a run replaces the previous run's data.
type RunRepository interface {
	ReplaceRun(ctx context.Context, run domain.Run, inventory []domain.InventoryRecord, transfers []domain.TransferSuggestion) error
	LatestRun(ctx context.Context) (*domain.Run, error)
}
