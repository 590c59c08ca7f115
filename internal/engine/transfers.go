package engine

import (
	"sort"
	"time"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

type batchKey struct {
	productID string
	expiry    time.Time
}

type candidate struct {
	record  domain.InventoryRecord
	surplus float64
	risk    float64
}

// PlanTransfers greedily moves surplus from urgent donor stores to stores
// short of the same product batch. Pairs with no distance row are skipped.
func PlanTransfers(records []domain.InventoryRecord, distances DistanceMatrix, th Thresholds, runID string) []domain.TransferSuggestion {
	var (
		order   []batchKey
		batches = make(map[batchKey][]domain.InventoryRecord)
	)
	for _, r := range records {
		key := batchKey{productID: r.ProductID, expiry: r.ExpiryDate.UTC()}
		if _, ok := batches[key]; !ok {
			order = append(order, key)
		}
		batches[key] = append(batches[key], r)
	}

	var transfers []domain.TransferSuggestion
	for _, key := range order {
		transfers = append(transfers, planBatch(batches[key], distances, th, runID)...)
	}
	return transfers
}

func planBatch(batch []domain.InventoryRecord, distances DistanceMatrix, th Thresholds, runID string) []domain.TransferSuggestion {
	var donors, receivers []*candidate
	for _, r := range batch {
		surplus := float64(r.Stock) - r.PredictedDemand
		switch {
		case surplus > 0 && (r.RemainingRatio <= th.RatioThreshold || r.DaysToExpiry <= th.DaysThreshold):
			days := r.DaysToExpiry
			if days < 1 {
				days = 1
			}
			donors = append(donors, &candidate{record: r, surplus: surplus, risk: surplus * r.MRP / float64(days)})
		case surplus < 0:
			receivers = append(receivers, &candidate{record: r, surplus: surplus})
		}
	}
	if len(donors) == 0 || len(receivers) == 0 {
		return nil
	}

	sort.SliceStable(donors, func(i, j int) bool { return donors[i].risk > donors[j].risk })
	sort.SliceStable(receivers, func(i, j int) bool { return receivers[i].surplus < receivers[j].surplus })

	var out []domain.TransferSuggestion
	for _, donor := range donors {
		for _, rec := range receivers {
			if rec.record.StoreID == donor.record.StoreID {
				continue
			}
			qty := int(min(donor.surplus, -rec.surplus))
			if qty <= 0 {
				continue
			}
			km, ok := distances.Lookup(donor.record.StoreID, rec.record.StoreID)
			if !ok {
				continue
			}

			out = append(out, domain.TransferSuggestion{
				RunID:          runID,
				ProductID:      donor.record.ProductID,
				FromStore:      donor.record.StoreID,
				ToStore:        rec.record.StoreID,
				Quantity:       qty,
				DistanceKm:     km,
				ExpiryDate:     donor.record.ExpiryDate,
				DaysToExpiry:   donor.record.DaysToExpiry,
				RemainingRatio: donor.record.RemainingRatio,
			})

			donor.surplus -= float64(qty)
			rec.surplus += float64(qty)
			if donor.surplus <= 0 {
				break
			}
		}
	}
	return out
}
