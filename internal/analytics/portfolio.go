package analytics

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// DemandRanking selects how the top-N demand list is built.
type DemandRanking string

const (
	// RankInputOrder takes the first N records as given. This is what the
	// dashboard has always shown, even though the chart is titled as a ranking.
	RankInputOrder DemandRanking = "input_order"
	// RankByDemand takes the N records with the highest predicted demand.
	RankByDemand DemandRanking = "by_demand"
)

const (
	DefaultTopN = 10

	overstockFactor          = 2.0
	longDistanceKm           = 20.0
	expiryRiskHighCount      = 10
	overstockRiskHighCount   = 5
	transferRiskMediumCount  = 5
	healthyAvgDaysToExpiry   = 30
	stockOutlookHealthy      = "healthy"
	stockOutlookTight        = "tight"
	overstockImpact          = "Capital tied up, storage costs"
	transferEfficiencyImpact = "Increased logistics costs"
)

// Options tunes an analytics pass. The zero value is not usable; start from DefaultOptions.
type Options struct {
	TopN      int
	Ranking   DemandRanking
	ZeroStock ZeroStockPolicy
}

func DefaultOptions() Options {
	return Options{
		TopN:      DefaultTopN,
		Ranking:   RankInputOrder,
		ZeroStock: ZeroStockAsZero,
	}
}

func (o Options) normalized() Options {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.Ranking != RankByDemand {
		o.Ranking = RankInputOrder
	}
	if o.ZeroStock != ZeroStockFail {
		o.ZeroStock = ZeroStockAsZero
	}
	return o
}

// Analyze computes the full portfolio snapshot. Any invalid record aborts the pass
// with an error wrapping domain.ErrInvalidInput; an empty inventory yields
// domain.ErrEmptyCollection. Use Screen first to drop invalid records instead.
func Analyze(inventory []domain.InventoryRecord, transfers []domain.TransferSuggestion, opts Options) (domain.PortfolioSnapshot, error) {
	opts = opts.normalized()

	for _, r := range inventory {
		if err := r.Validate(); err != nil {
			return domain.PortfolioSnapshot{}, fmt.Errorf("analyze: %w", err)
		}
	}
	if len(inventory) == 0 {
		return domain.PortfolioSnapshot{}, fmt.Errorf("analyze: inventory: %w", domain.ErrEmptyCollection)
	}

	transferSummary, err := SummarizeTransfers(transfers)
	if err != nil {
		return domain.PortfolioSnapshot{}, fmt.Errorf("analyze: %w", err)
	}

	stores, err := AggregateStores(inventory, opts.ZeroStock)
	if err != nil {
		return domain.PortfolioSnapshot{}, fmt.Errorf("analyze: %w", err)
	}

	var (
		revenue, loss       float64
		daysSum             int64
		critical, overstock int
		highDemand          int
	)
	for _, r := range inventory {
		revenue += r.ExpectedSales * r.FinalPrice
		daysSum += int64(r.DaysToExpiry)
		if isCritical(r) {
			critical++
			loss += float64(r.Stock) * r.FinalPrice
		}
		if float64(r.Stock) > r.ExpectedSales*overstockFactor {
			overstock++
		}
		if r.PredictedDemand > PortfolioHighDemandThreshold {
			highDemand++
		}
	}

	longHauls := 0
	for _, t := range transfers {
		if t.DistanceKm > longDistanceKm {
			longHauls++
		}
	}

	avgDays := int64(roundHalfUp(float64(daysSum) / float64(len(inventory))))
	outlook := stockOutlookTight
	if avgDays > healthyAvgDaysToExpiry {
		outlook = stockOutlookHealthy
	}

	return domain.PortfolioSnapshot{
		TotalRevenue:      revenue,
		PotentialLoss:     loss,
		DemandPredictions: demandRanking(inventory, opts),
		Risks:             riskNarratives(critical, overstock, longHauls, loss),
		StorePerformance:  stores,
		TotalProducts:     len(inventory),
		TotalTransfers:    len(transfers),
		AvgDaysToExpiry:   avgDays,
		HighDemandItems:   highDemand,
		HighDemandShare:   int64(roundHalfUp(float64(highDemand) / float64(len(inventory)) * 100)),
		StockOutlook:      outlook,
		Transfers:         transferSummary,
	}, nil
}

func demandRanking(inventory []domain.InventoryRecord, opts Options) []domain.DemandPoint {
	ranked := inventory
	if opts.Ranking == RankByDemand {
		ranked = make([]domain.InventoryRecord, len(inventory))
		copy(ranked, inventory)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].PredictedDemand > ranked[j].PredictedDemand
		})
	}

	n := opts.TopN
	if n > len(ranked) {
		n = len(ranked)
	}
	points := make([]domain.DemandPoint, 0, n)
	for _, r := range ranked[:n] {
		points = append(points, domain.DemandPoint{
			Label: fmt.Sprintf("%s (%s)", r.ProductName, r.StoreID),
			Value: int64(roundHalfUp(r.PredictedDemand)),
		})
	}
	return points
}

func riskNarratives(critical, overstock, longHauls int, loss float64) []domain.RiskNarrative {
	expiryLevel := domain.RiskMedium
	if critical > expiryRiskHighCount {
		expiryLevel = domain.RiskHigh
	}
	overstockLevel := domain.RiskLow
	if overstock > overstockRiskHighCount {
		overstockLevel = domain.RiskHigh
	}
	transferLevel := domain.RiskLow
	if longHauls > transferRiskMediumCount {
		transferLevel = domain.RiskMedium
	}

	return []domain.RiskNarrative{
		{
			Title:       "High Expiry Risk",
			Description: fmt.Sprintf("%d items expiring within %d days", critical, CriticalExpiryDays),
			Level:       expiryLevel,
			Count:       critical,
			Impact:      formatCurrency(loss) + " potential loss",
		},
		{
			Title:       "Overstocking Risk",
			Description: fmt.Sprintf("%d items significantly overstocked", overstock),
			Level:       overstockLevel,
			Count:       overstock,
			Impact:      overstockImpact,
		},
		{
			Title:       "Transfer Efficiency",
			Description: fmt.Sprintf("%d long-distance transfers suggested", longHauls),
			Level:       transferLevel,
			Count:       longHauls,
			Impact:      transferEfficiencyImpact,
		},
	}
}

// InventoryStatistics returns the listing headline counters. High demand here
// uses the item-level threshold, not the portfolio one.
func InventoryStatistics(records []domain.InventoryRecord) (domain.InventoryStats, error) {
	stats := domain.InventoryStats{TotalItems: len(records)}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return domain.InventoryStats{}, fmt.Errorf("inventory statistics: %w", err)
		}
		stats.TotalStock += int64(r.Stock)
		if isCritical(r) {
			stats.ExpiringItems++
		}
		if ClassifyDemand(r.PredictedDemand) == domain.DemandHigh {
			stats.HighDemandItems++
		}
	}
	return stats, nil
}

// Screen splits records into valid ones and exclusions, for callers that accept
// partial results instead of a failed pass.
func Screen(inventory []domain.InventoryRecord, transfers []domain.TransferSuggestion) ([]domain.InventoryRecord, []domain.TransferSuggestion, []domain.Exclusion) {
	var exclusions []domain.Exclusion

	validInv := make([]domain.InventoryRecord, 0, len(inventory))
	for _, r := range inventory {
		if err := r.Validate(); err != nil {
			exclusions = append(exclusions, domain.Exclusion{Kind: "inventory", RecordID: r.Key(), Reason: err.Error()})
			continue
		}
		validInv = append(validInv, r)
	}

	validTransfers := make([]domain.TransferSuggestion, 0, len(transfers))
	for _, t := range transfers {
		if err := t.Validate(); err != nil {
			exclusions = append(exclusions, domain.Exclusion{Kind: "transfer", RecordID: t.Key(), Reason: err.Error()})
			continue
		}
		validTransfers = append(validTransfers, t)
	}

	return validInv, validTransfers, exclusions
}
