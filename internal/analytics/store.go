package analytics

import (
	"fmt"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// ZeroStockPolicy decides what a zero-stock record contributes to store efficiency.
type ZeroStockPolicy string

const (
	// ZeroStockAsZero counts the record with a sell-through ratio of 0.
	ZeroStockAsZero ZeroStockPolicy = "zero"
	// ZeroStockFail aborts the aggregation with domain.ErrDivisionUndefined.
	ZeroStockFail ZeroStockPolicy = "fail"
)

const (
	maxEfficiency        = 100
	highWasteRiskCount   = 3
	mediumWasteRiskCount = 1
)

// StoreGroup is the slice of inventory records that share a store id.
type StoreGroup struct {
	StoreID string
	Records []domain.InventoryRecord
}

// GroupByStore partitions records by store id. Groups come out in the order the
// store ids are first seen, and records keep their input order within a group.
func GroupByStore(records []domain.InventoryRecord) []StoreGroup {
	index := make(map[string]int)
	groups := make([]StoreGroup, 0)
	for _, r := range records {
		i, ok := index[r.StoreID]
		if !ok {
			i = len(groups)
			index[r.StoreID] = i
			groups = append(groups, StoreGroup{StoreID: r.StoreID})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// AggregateStore rolls one store's records up into efficiency, waste risk and revenue.
//
// Efficiency is the mean of expected_sales/stock as a rounded percentage capped at 100.
// Waste risk is High above 3 critical records, Medium above 1, else Low.
// Revenue is the rounded sum of expected_sales * final_price.
// Invalid records fail the aggregation with an error wrapping domain.ErrInvalidInput.
func AggregateStore(storeID string, records []domain.InventoryRecord, policy ZeroStockPolicy) (domain.StorePerformance, error) {
	if len(records) == 0 {
		return domain.StorePerformance{}, fmt.Errorf("store %s: %w", storeID, domain.ErrEmptyCollection)
	}

	var (
		ratioSum float64
		revenue  float64
		expiring int
	)
	for _, r := range records {
		if r.StoreID != storeID {
			return domain.StorePerformance{}, fmt.Errorf("store %s: record %s belongs to store %s: %w",
				storeID, r.Key(), r.StoreID, domain.ErrInvalidInput)
		}
		if err := r.Validate(); err != nil {
			return domain.StorePerformance{}, fmt.Errorf("store %s: %w", storeID, err)
		}

		if r.Stock == 0 {
			if policy == ZeroStockFail {
				return domain.StorePerformance{}, fmt.Errorf("store %s: record %s has zero stock: %w",
					storeID, r.Key(), domain.ErrDivisionUndefined)
			}
		} else {
			ratioSum += r.ExpectedSales / float64(r.Stock)
		}

		if isCritical(r) {
			expiring++
		}
		revenue += r.ExpectedSales * r.FinalPrice
	}

	efficiency := int(roundHalfUp(ratioSum / float64(len(records)) * 100))
	if efficiency > maxEfficiency {
		efficiency = maxEfficiency
	}

	return domain.StorePerformance{
		StoreID:       storeID,
		Efficiency:    efficiency,
		WasteRisk:     wasteRisk(expiring),
		Revenue:       int64(roundHalfUp(revenue)),
		Items:         len(records),
		ExpiringItems: expiring,
	}, nil
}

// AggregateStores applies AggregateStore to every store in first-seen order.
func AggregateStores(records []domain.InventoryRecord, policy ZeroStockPolicy) ([]domain.StorePerformance, error) {
	groups := GroupByStore(records)
	out := make([]domain.StorePerformance, 0, len(groups))
	for _, g := range groups {
		perf, err := AggregateStore(g.StoreID, g.Records, policy)
		if err != nil {
			return nil, err
		}
		out = append(out, perf)
	}
	return out, nil
}

func wasteRisk(expiring int) domain.RiskLevel {
	switch {
	case expiring > highWasteRiskCount:
		return domain.RiskHigh
	case expiring > mediumWasteRiskCount:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
