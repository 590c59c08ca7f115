package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

const inventoryColumns = `id, run_id, store_id, product_id, product_name, stock, expiry_date,
	shelf_life_days, days_to_expiry, remaining_ratio, avg_daily_sales, expected_sales,
	predicted_demand, mrp, discount, final_price`

type InventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) ListInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryRecord, int, error) {
	where, args := buildInventoryFilterClause(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM inventory"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory: %w", err)
	}

	query := "SELECT " + inventoryColumns + " FROM inventory" + where + " ORDER BY id"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, (page-1)*filter.PageSize)
	}

	items := []domain.InventoryRecord{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, total, nil
}

type TransferRepository struct {
	db *DB
}

func NewTransferRepository(db *DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) ListTransfers(ctx context.Context) ([]domain.TransferSuggestion, error) {
	transfers := []domain.TransferSuggestion{}
	err := r.db.SelectContext(ctx, &transfers, `
		SELECT id, run_id, product_id, expiry_date, from_store, to_store, quantity,
			distance_km, remaining_ratio, days_to_expiry
		FROM transfers
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

// likeEscaper escapes ILIKE wildcards so search text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// buildInventoryFilterClause returns a WHERE clause and its args for filter.
func buildInventoryFilterClause(filter domain.InventoryFilter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := 1

	if s := strings.TrimSpace(filter.Search); s != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(product_name ILIKE $%d OR product_id ILIKE $%d OR store_id ILIKE $%d OR id::text = $%d)",
			idx, idx, idx, idx+1))
		args = append(args, "%"+likeEscaper.Replace(s)+"%", s)
		idx += 2
	}

	if filter.StoreID != "" {
		clauses = append(clauses, fmt.Sprintf("store_id = $%d", idx))
		args = append(args, filter.StoreID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
