package analytics

import "github.com/andresuchdata/smartstockx/backend-go/internal/domain"

// AnnotateInventory attaches the demand tier and expiry status to each record.
func AnnotateInventory(records []domain.InventoryRecord) []domain.InventoryItem {
	items := make([]domain.InventoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, domain.InventoryItem{
			InventoryRecord: r,
			DemandTier:      ClassifyDemand(r.PredictedDemand),
			ExpiryStatus:    ClassifyExpiry(r.DaysToExpiry),
		})
	}
	return items
}

func AnnotateTransfers(transfers []domain.TransferSuggestion) []domain.TransferItem {
	items := make([]domain.TransferItem, 0, len(transfers))
	for _, t := range transfers {
		items = append(items, domain.TransferItem{
			TransferSuggestion: t,
			Priority:           ClassifyTransferPriority(t.DaysToExpiry),
		})
	}
	return items
}
