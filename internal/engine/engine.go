package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

const runIDLayout = "20060102_150405"

// RunResult is the scored output of one engine pass.
type RunResult struct {
	RunID     string
	Inventory []domain.InventoryRecord
	Transfers []domain.TransferSuggestion
}

type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// RunID names a run after its evaluation time.
func RunID(evalDate time.Time) string {
	return evalDate.Format(runIDLayout)
}

// Run derives features, prices every row and plans transfers as of evalDate.
// Any invalid row fails the whole run.
func (e *Engine) Run(ctx context.Context, rows []RawInventory, distances []Distance, evalDate time.Time) (*RunResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("inventory has no rows: %w", domain.ErrEmptyCollection)
	}

	runID := RunID(evalDate)
	inventory := make([]domain.InventoryRecord, 0, len(rows))
	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := e.cfg.Pricing.Apply(DeriveFeatures(raw, evalDate))
		rec.RunID = runID
		rec, err := domain.NewInventoryRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: %w", i+1, err)
		}
		inventory = append(inventory, rec)
	}

	transfers := PlanTransfers(inventory, NewDistanceMatrix(distances), e.cfg.Thresholds, runID)
	for i, t := range transfers {
		if _, err := domain.NewTransferSuggestion(t); err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i+1, err)
		}
	}

	log.Info().
		Str("run_id", runID).
		Int("inventory", len(inventory)).
		Int("transfers", len(transfers)).
		Msg("engine run complete")

	return &RunResult{RunID: runID, Inventory: inventory, Transfers: transfers}, nil
}
