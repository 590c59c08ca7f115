package engine

import (
	"time"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

const day = 24 * time.Hour

// DeriveFeatures computes the expiry features of a raw row as of evalDate.
// Remaining ratio is capped at 1 for batches with more days left than their shelf life.
func DeriveFeatures(raw RawInventory, evalDate time.Time) domain.InventoryRecord {
	days := 0
	if left := raw.ExpiryDate.Sub(evalDate); left > 0 {
		days = int(left / day)
	}

	shelfLife := raw.ShelfLifeDays
	if shelfLife < 1 {
		shelfLife = 1
	}
	ratio := float64(days) / float64(shelfLife)
	if ratio > 1 {
		ratio = 1
	}

	expected := float64(days) * raw.AvgDailySales
	predicted := expected
	if raw.PredictedDemand != nil {
		predicted = *raw.PredictedDemand
	}

	return domain.InventoryRecord{
		StoreID:         raw.StoreID,
		ProductID:       raw.ProductID,
		ProductName:     raw.ProductName,
		Stock:           raw.Stock,
		ExpiryDate:      raw.ExpiryDate,
		ShelfLifeDays:   raw.ShelfLifeDays,
		DaysToExpiry:    days,
		RemainingRatio:  ratio,
		AvgDailySales:   raw.AvgDailySales,
		ExpectedSales:   expected,
		PredictedDemand: predicted,
		MRP:             raw.MRP,
	}
}
