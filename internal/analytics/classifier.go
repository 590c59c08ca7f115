// Package analytics turns inventory and transfer records into classifications,
// store rollups and portfolio metrics. Every function is pure: inputs are never
// mutated and no state is kept between calls.
package analytics

import (
	"math"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// The item-level and portfolio-level "high demand" cutoffs differ on purpose and
// must not be merged: the inventory listing uses 250, the analytics headline 200.
const (
	ItemHighDemandThreshold      = 250.0
	PortfolioHighDemandThreshold = 200.0
	MediumDemandThreshold        = 100.0

	CriticalExpiryDays = 7
	WarningExpiryDays  = 30

	HighPriorityDays   = 7
	MediumPriorityDays = 15
)

// ClassifyDemand maps a predicted demand figure to a tier. Boundaries fall to the lower tier.
func ClassifyDemand(predictedDemand float64) domain.DemandTier {
	switch {
	case predictedDemand > ItemHighDemandThreshold:
		return domain.DemandHigh
	case predictedDemand > MediumDemandThreshold:
		return domain.DemandMedium
	default:
		return domain.DemandLow
	}
}

// ClassifyExpiry maps days-to-expiry to an urgency bucket. Already expired
// stock (negative days) is Critical.
func ClassifyExpiry(daysToExpiry int) domain.ExpiryStatus {
	switch {
	case daysToExpiry <= CriticalExpiryDays:
		return domain.ExpiryCritical
	case daysToExpiry <= WarningExpiryDays:
		return domain.ExpiryWarning
	default:
		return domain.ExpiryGood
	}
}

// ClassifyTransferPriority maps the donor batch's days-to-expiry to a priority.
func ClassifyTransferPriority(daysToExpiry int) domain.TransferPriority {
	switch {
	case daysToExpiry <= HighPriorityDays:
		return domain.PriorityHigh
	case daysToExpiry <= MediumPriorityDays:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func isCritical(r domain.InventoryRecord) bool {
	return ClassifyExpiry(r.DaysToExpiry) == domain.ExpiryCritical
}

// roundHalfUp rounds .5 towards positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
