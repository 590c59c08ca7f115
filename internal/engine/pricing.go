package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// Discount scales the markdown with the share of stock expected to go unsold
// and with how close the batch is to expiry.
func (p PricingPolicy) Discount(r domain.InventoryRecord) float64 {
	unsoldRatio := 0.0
	if r.Stock > 0 {
		unsold := math.Max(float64(r.Stock)-r.PredictedDemand, 0)
		unsoldRatio = unsold / float64(r.Stock)
	}

	urgentDays := p.UrgentDays
	if urgentDays < 1 {
		urgentDays = 1
	}
	relative := 1 - r.RemainingRatio
	absolute := math.Max(float64(urgentDays-r.DaysToExpiry+1), 0) / float64(urgentDays)
	urgency := math.Max(relative, absolute)

	return math.Min(p.MaxDiscount, p.BaseDiscount+0.5*unsoldRatio*urgency)
}

// Apply sets Discount and FinalPrice on r. The final price is rounded down to
// the paisa so it never exceeds MRP.
func (p PricingPolicy) Apply(r domain.InventoryRecord) domain.InventoryRecord {
	discount := p.Discount(r)
	mrp := decimal.NewFromFloat(r.MRP)
	final := mrp.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount))).RoundFloor(2)

	r.Discount = discount
	r.FinalPrice = final.InexactFloat64()
	return r
}
