package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

func demandItem(name string, demand float64) domain.InventoryRecord {
	r := item("S1", 10, 5, 1, 40)
	r.ProductName = name
	r.PredictedDemand = demand
	return r
}

func TestAnalyze_PotentialLossOnlyCountsCritical(t *testing.T) {
	inventory := []domain.InventoryRecord{
		item("S1", 10, 1, 5, 3),
		item("S1", 20, 1, 2, 40),
	}
	snap, err := Analyze(inventory, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 50.0, snap.PotentialLoss)
	assert.Equal(t, 7.0, snap.TotalRevenue)
	assert.Equal(t, "₹50 potential loss", snap.Risks[0].Impact)
}

func TestAnalyze_TopDemandKeepsInputOrder(t *testing.T) {
	var inventory []domain.InventoryRecord
	for i := 0; i < 15; i++ {
		inventory = append(inventory, demandItem(fmt.Sprintf("item-%02d", i), float64(i*10)))
	}

	snap, err := Analyze(inventory, nil, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, snap.DemandPredictions, 10)
	for i, p := range snap.DemandPredictions {
		assert.Equal(t, fmt.Sprintf("item-%02d (S1)", i), p.Label)
		assert.Equal(t, int64(i*10), p.Value)
	}
}

func TestAnalyze_TopDemandByDemand(t *testing.T) {
	var inventory []domain.InventoryRecord
	for i := 0; i < 15; i++ {
		inventory = append(inventory, demandItem(fmt.Sprintf("item-%02d", i), float64(i*10)))
	}
	opts := DefaultOptions()
	opts.Ranking = RankByDemand
	opts.TopN = 3

	snap, err := Analyze(inventory, nil, opts)
	require.NoError(t, err)
	require.Len(t, snap.DemandPredictions, 3)
	assert.Equal(t, "item-14 (S1)", snap.DemandPredictions[0].Label)
	assert.Equal(t, "item-12 (S1)", snap.DemandPredictions[2].Label)
	assert.Equal(t, "item-00", inventory[0].ProductName, "input must not be reordered")
}

func TestAnalyze_HighDemandUsesPortfolioThreshold(t *testing.T) {
	inventory := []domain.InventoryRecord{
		demandItem("a", 199),
		demandItem("b", 200),
		demandItem("c", 201),
		demandItem("d", 260),
	}
	snap, err := Analyze(inventory, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.HighDemandItems)
	assert.Equal(t, int64(50), snap.HighDemandShare)

	stats, err := InventoryStatistics(inventory)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.HighDemandItems)
}

func TestAnalyze_RiskNarratives(t *testing.T) {
	var inventory []domain.InventoryRecord
	for i := 0; i < 11; i++ {
		inventory = append(inventory, item("S1", 10, 1, 1, 2))
	}
	var transfers []domain.TransferSuggestion
	for i := 0; i < 6; i++ {
		transfers = append(transfers, transfer(25, 1, 20))
	}
	transfers = append(transfers, transfer(20, 1, 20))

	snap, err := Analyze(inventory, transfers, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, snap.Risks, 3)

	assert.Equal(t, "High Expiry Risk", snap.Risks[0].Title)
	assert.Equal(t, 11, snap.Risks[0].Count)
	assert.Equal(t, domain.RiskHigh, snap.Risks[0].Level)
	assert.Equal(t, "₹110 potential loss", snap.Risks[0].Impact)

	assert.Equal(t, "Overstocking Risk", snap.Risks[1].Title)
	assert.Equal(t, 11, snap.Risks[1].Count)
	assert.Equal(t, domain.RiskHigh, snap.Risks[1].Level)
	assert.Equal(t, "Capital tied up, storage costs", snap.Risks[1].Impact)

	assert.Equal(t, "Transfer Efficiency", snap.Risks[2].Title)
	assert.Equal(t, 6, snap.Risks[2].Count)
	assert.Equal(t, domain.RiskMedium, snap.Risks[2].Level)
}

func TestAnalyze_LowRiskDefaults(t *testing.T) {
	snap, err := Analyze([]domain.InventoryRecord{item("S1", 1, 5, 1, 60)}, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, snap.Risks[0].Level)
	assert.Equal(t, domain.RiskLow, snap.Risks[1].Level)
	assert.Equal(t, domain.RiskLow, snap.Risks[2].Level)
	assert.Equal(t, "healthy", snap.StockOutlook)
}

func TestAnalyze_StorePerformanceFirstSeen(t *testing.T) {
	inventory := []domain.InventoryRecord{
		item("B", 10, 5, 1, 40),
		item("A", 10, 10, 1, 40),
		item("B", 10, 5, 1, 40),
	}
	snap, err := Analyze(inventory, nil, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, snap.StorePerformance, 2)
	assert.Equal(t, "B", snap.StorePerformance[0].StoreID)
	assert.Equal(t, "A", snap.StorePerformance[1].StoreID)
	assert.Equal(t, 100, snap.StorePerformance[1].Efficiency)
}

func TestAnalyze_AverageDaysToExpiry(t *testing.T) {
	inventory := []domain.InventoryRecord{
		item("S1", 10, 1, 1, -3),
		item("S1", 10, 1, 1, -2),
	}
	snap, err := Analyze(inventory, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(-2), snap.AvgDaysToExpiry)
	assert.Equal(t, "tight", snap.StockOutlook)
}

func TestAnalyze_EmptyInventory(t *testing.T) {
	_, err := Analyze(nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrEmptyCollection)
}

func TestAnalyze_RejectsInvalidRecord(t *testing.T) {
	bad := item("S1", -1, 1, 1, 1)
	_, err := Analyze([]domain.InventoryRecord{bad}, nil, DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalyze_ZeroStockPolicy(t *testing.T) {
	inventory := []domain.InventoryRecord{item("S1", 0, 1, 1, 40)}
	opts := DefaultOptions()
	opts.ZeroStock = ZeroStockFail
	_, err := Analyze(inventory, nil, opts)
	assert.ErrorIs(t, err, domain.ErrDivisionUndefined)

	snap, err := Analyze(inventory, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.StorePerformance[0].Efficiency)
}

func TestAnalyze_Idempotent(t *testing.T) {
	inventory := []domain.InventoryRecord{
		item("S1", 10, 3.3, 1.7, 3),
		item("S2", 7, 1.1, 9.9, 25),
		item("S1", 4, 8.2, 0.3, 50),
	}
	transfers := []domain.TransferSuggestion{transfer(12.5, 3, 4), transfer(33.3, 1, 16)}

	first, err := Analyze(inventory, transfers, DefaultOptions())
	require.NoError(t, err)
	second, err := Analyze(inventory, transfers, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScreen(t *testing.T) {
	good := item("S1", 1, 1, 1, 1)
	bad := item("S1", -4, 1, 1, 1)
	badTransfer := transfer(1, 0, 1)

	inv, transfers, exclusions := Screen(
		[]domain.InventoryRecord{good, bad},
		[]domain.TransferSuggestion{transfer(1, 1, 1), badTransfer},
	)
	assert.Len(t, inv, 1)
	assert.Len(t, transfers, 1)
	require.Len(t, exclusions, 2)
	assert.Equal(t, "inventory", exclusions[0].Kind)
	assert.Equal(t, "transfer", exclusions[1].Kind)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹0", formatCurrency(0))
	assert.Equal(t, "₹12,345", formatCurrency(12345))
	assert.Equal(t, "₹1,234.5", formatCurrency(1234.5))
}

func TestInventoryStatistics(t *testing.T) {
	stats, err := InventoryStatistics([]domain.InventoryRecord{
		item("S1", 10, 1, 1, 3),
		item("S2", 5, 1, 1, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InventoryStats{TotalItems: 2, TotalStock: 15, ExpiringItems: 1}, stats)
}

func TestInventoryStatistics_RejectsInvalidRecords(t *testing.T) {
	_, err := InventoryStatistics([]domain.InventoryRecord{item("S1", -10, 1, 1, 3)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
