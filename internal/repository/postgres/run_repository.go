package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// insertBatchSize keeps bulk inserts under the postgres bind parameter limit.
const insertBatchSize = 1000

const insertInventory = `
	INSERT INTO inventory (
		run_id, store_id, product_id, product_name, stock, expiry_date, shelf_life_days,
		days_to_expiry, remaining_ratio, avg_daily_sales, expected_sales, predicted_demand,
		mrp, discount, final_price
	) VALUES (
		:run_id, :store_id, :product_id, :product_name, :stock, :expiry_date, :shelf_life_days,
		:days_to_expiry, :remaining_ratio, :avg_daily_sales, :expected_sales, :predicted_demand,
		:mrp, :discount, :final_price
	)`

const insertTransfer = `
	INSERT INTO transfers (
		run_id, product_id, expiry_date, from_store, to_store, quantity,
		distance_km, remaining_ratio, days_to_expiry
	) VALUES (
		:run_id, :product_id, :expiry_date, :from_store, :to_store, :quantity,
		:distance_km, :remaining_ratio, :days_to_expiry
	)`

type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// ReplaceRun clears the previous run's rows and stores the new run in one transaction.
func (r *RunRepository) ReplaceRun(ctx context.Context, run domain.Run, inventory []domain.InventoryRecord, transfers []domain.TransferSuggestion) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range []string{"transfers", "inventory"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO runs (id, source, inventory_count, transfer_count, created_at)
			VALUES (:id, :source, :inventory_count, :transfer_count, :created_at)
			ON CONFLICT (id) DO UPDATE SET
				source = EXCLUDED.source,
				inventory_count = EXCLUDED.inventory_count,
				transfer_count = EXCLUDED.transfer_count,
				created_at = EXCLUDED.created_at`, run)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		for start := 0; start < len(inventory); start += insertBatchSize {
			end := min(start+insertBatchSize, len(inventory))
			if _, err := tx.NamedExecContext(ctx, insertInventory, inventory[start:end]); err != nil {
				return fmt.Errorf("failed to insert inventory: %w", err)
			}
		}
		for start := 0; start < len(transfers); start += insertBatchSize {
			end := min(start+insertBatchSize, len(transfers))
			if _, err := tx.NamedExecContext(ctx, insertTransfer, transfers[start:end]); err != nil {
				return fmt.Errorf("failed to insert transfers: %w", err)
			}
		}
		return nil
	})
}

func (r *RunRepository) LatestRun(ctx context.Context) (*domain.Run, error) {
	var run domain.Run
	err := r.db.GetContext(ctx, &run, `
		SELECT id, source, inventory_count, transfer_count, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest run: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return &run, nil
}
