package analytics

import (
	"fmt"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// SummarizeTransfers counts suggestions by priority and totals distance and quantity.
// The mean distance of an empty collection is 0.
func SummarizeTransfers(transfers []domain.TransferSuggestion) (domain.TransferSummary, error) {
	var (
		summary  domain.TransferSummary
		distance float64
	)
	for _, t := range transfers {
		if err := t.Validate(); err != nil {
			return domain.TransferSummary{}, fmt.Errorf("summarize transfers: %w", err)
		}

		switch ClassifyTransferPriority(t.DaysToExpiry) {
		case domain.PriorityHigh:
			summary.ByPriority.High++
		case domain.PriorityMedium:
			summary.ByPriority.Medium++
		default:
			summary.ByPriority.Low++
		}
		distance += t.DistanceKm
		summary.TotalQuantity += int64(t.Quantity)
	}

	summary.Total = len(transfers)
	if summary.Total > 0 {
		summary.AverageDistanceKm = distance / float64(summary.Total)
	}
	return summary, nil
}
