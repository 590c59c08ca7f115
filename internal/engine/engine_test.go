package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

var evalDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDeriveFeatures(t *testing.T) {
	raw := RawInventory{
		StoreID:       "S1",
		ProductID:     "P1",
		Stock:         100,
		ExpiryDate:    evalDate.AddDate(0, 0, 10),
		ShelfLifeDays: 20,
		AvgDailySales: 3,
		MRP:           40,
	}

	rec := DeriveFeatures(raw, evalDate)
	assert.Equal(t, 10, rec.DaysToExpiry)
	assert.InDelta(t, 0.5, rec.RemainingRatio, 1e-9)
	assert.InDelta(t, 30, rec.ExpectedSales, 1e-9)
	assert.InDelta(t, 30, rec.PredictedDemand, 1e-9, "falls back to expected sales")

	demand := 75.0
	raw.PredictedDemand = &demand
	assert.InDelta(t, 75, DeriveFeatures(raw, evalDate).PredictedDemand, 1e-9)
}

func TestDeriveFeaturesEdges(t *testing.T) {
	tests := []struct {
		name      string
		expiry    time.Time
		shelfLife int
		wantDays  int
		wantRatio float64
	}{
		{"expired clips to zero", evalDate.AddDate(0, 0, -3), 10, 0, 0},
		{"partial day truncates", evalDate.Add(30 * time.Hour), 10, 1, 0.1},
		{"zero shelf life divides by one", evalDate.AddDate(0, 0, 1), 0, 1, 1},
		{"ratio capped at one", evalDate.AddDate(0, 0, 40), 10, 40, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := DeriveFeatures(RawInventory{ExpiryDate: tt.expiry, ShelfLifeDays: tt.shelfLife}, evalDate)
			assert.Equal(t, tt.wantDays, rec.DaysToExpiry)
			assert.InDelta(t, tt.wantRatio, rec.RemainingRatio, 1e-9)
		})
	}
}

func TestPricing(t *testing.T) {
	p := DefaultConfig().Pricing

	t.Run("scaled by unsold share and urgency", func(t *testing.T) {
		rec := p.Apply(domain.InventoryRecord{Stock: 100, PredictedDemand: 30, RemainingRatio: 0.5, DaysToExpiry: 10, MRP: 40})
		assert.InDelta(t, 0.275, rec.Discount, 1e-9)
		assert.InDelta(t, 29.0, rec.FinalPrice, 0.01)
	})

	t.Run("capped at max discount", func(t *testing.T) {
		rec := p.Apply(domain.InventoryRecord{Stock: 100, PredictedDemand: 0, RemainingRatio: 0, DaysToExpiry: 0, MRP: 10})
		assert.InDelta(t, 0.40, rec.Discount, 1e-9)
		assert.InDelta(t, 6.0, rec.FinalPrice, 0.01)
	})

	t.Run("zero stock gets base discount", func(t *testing.T) {
		rec := p.Apply(domain.InventoryRecord{Stock: 0, RemainingRatio: 0.2, DaysToExpiry: 5, MRP: 10})
		assert.InDelta(t, 0.10, rec.Discount, 1e-9)
	})

	t.Run("final price never exceeds MRP", func(t *testing.T) {
		rec := p.Apply(domain.InventoryRecord{Stock: 7, PredictedDemand: 3, RemainingRatio: 0.3, DaysToExpiry: 4, MRP: 33.33})
		assert.LessOrEqual(t, rec.FinalPrice, rec.MRP)
		require.NoError(t, rec.Validate())
	})
}

func batchRecord(store string, stock int, predicted float64, days int, ratio float64) domain.InventoryRecord {
	return domain.InventoryRecord{
		StoreID:         store,
		ProductID:       "P1",
		Stock:           stock,
		PredictedDemand: predicted,
		DaysToExpiry:    days,
		RemainingRatio:  ratio,
		ExpiryDate:      evalDate.AddDate(0, 0, days),
		MRP:             10,
	}
}

func TestPlanTransfers(t *testing.T) {
	th := DefaultConfig().Thresholds
	records := []domain.InventoryRecord{
		batchRecord("A", 50, 10, 1, 0.05),
		batchRecord("B", 0, 25, 1, 0.05),
		batchRecord("C", 5, 30, 1, 0.05),
	}

	t.Run("donor splits across receivers", func(t *testing.T) {
		dm := NewDistanceMatrix([]Distance{{"A", "B", 5}, {"A", "C", 12}})
		got := PlanTransfers(records, dm, th, "run")
		require.Len(t, got, 2)
		assert.Equal(t, "B", got[0].ToStore)
		assert.Equal(t, 25, got[0].Quantity)
		assert.Equal(t, 5.0, got[0].DistanceKm)
		assert.Equal(t, "C", got[1].ToStore)
		assert.Equal(t, 15, got[1].Quantity)
		assert.Equal(t, "run", got[1].RunID)
	})

	t.Run("pairs without distance are skipped", func(t *testing.T) {
		dm := NewDistanceMatrix([]Distance{{"A", "C", 12}})
		got := PlanTransfers(records, dm, th, "run")
		require.Len(t, got, 1)
		assert.Equal(t, "C", got[0].ToStore)
		assert.Equal(t, 25, got[0].Quantity)
	})

	t.Run("non urgent surplus stays put", func(t *testing.T) {
		relaxed := []domain.InventoryRecord{
			batchRecord("A", 50, 10, 10, 0.5),
			batchRecord("B", 0, 25, 10, 0.5),
		}
		dm := NewDistanceMatrix([]Distance{{"A", "B", 5}})
		assert.Empty(t, PlanTransfers(relaxed, dm, th, "run"))
	})

	t.Run("receiver deficit is shared across donors", func(t *testing.T) {
		recs := []domain.InventoryRecord{
			batchRecord("D", 40, 10, 1, 0.05),
			batchRecord("A", 50, 10, 1, 0.05),
			batchRecord("B", 0, 50, 1, 0.05),
		}
		dm := NewDistanceMatrix([]Distance{{"A", "B", 5}, {"D", "B", 7}})
		got := PlanTransfers(recs, dm, th, "run")
		require.Len(t, got, 2)
		assert.Equal(t, "A", got[0].FromStore, "highest risk donor first")
		assert.Equal(t, 40, got[0].Quantity)
		assert.Equal(t, "D", got[1].FromStore)
		assert.Equal(t, 10, got[1].Quantity)
	})

	t.Run("rows at the same store never pair", func(t *testing.T) {
		recs := []domain.InventoryRecord{
			batchRecord("A", 50, 10, 1, 0.05),
			batchRecord("A", 0, 25, 1, 0.05),
			batchRecord("B", 0, 10, 1, 0.05),
		}
		dm := NewDistanceMatrix([]Distance{{"A", "A", 0}, {"A", "B", 4}})
		got := PlanTransfers(recs, dm, th, "run")
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].FromStore)
		assert.Equal(t, "B", got[0].ToStore)
		assert.Equal(t, 10, got[0].Quantity)
	})

	t.Run("different expiry dates are separate batches", func(t *testing.T) {
		other := batchRecord("B", 0, 25, 3, 0.05)
		dm := NewDistanceMatrix([]Distance{{"A", "B", 5}})
		assert.Empty(t, PlanTransfers([]domain.InventoryRecord{records[0], other}, dm, th, "run"))
	})
}

func TestDistanceMatrixFirstRowWins(t *testing.T) {
	dm := NewDistanceMatrix([]Distance{{"A", "B", 5}, {"A", "B", 9}})
	km, ok := dm.Lookup("A", "B")
	assert.True(t, ok)
	assert.Equal(t, 5.0, km)

	_, ok = dm.Lookup("B", "A")
	assert.False(t, ok, "distances are directed")
}

func TestEngineRun(t *testing.T) {
	e := New(DefaultConfig())

	t.Run("empty inventory", func(t *testing.T) {
		_, err := e.Run(context.Background(), nil, nil, evalDate)
		assert.ErrorIs(t, err, domain.ErrEmptyCollection)
	})

	t.Run("invalid row fails the run", func(t *testing.T) {
		rows := []RawInventory{{StoreID: "S1", ProductID: "P1", Stock: -1, ExpiryDate: evalDate, MRP: 1}}
		_, err := e.Run(context.Background(), rows, nil, evalDate)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("scores rows and plans transfers", func(t *testing.T) {
		expiry := evalDate.AddDate(0, 0, 1)
		low, high := 10.0, 40.0
		rows := []RawInventory{
			{StoreID: "A", ProductID: "P1", Stock: 50, ExpiryDate: expiry, ShelfLifeDays: 30, MRP: 20, PredictedDemand: &low},
			{StoreID: "B", ProductID: "P1", Stock: 5, ExpiryDate: expiry, ShelfLifeDays: 30, MRP: 20, PredictedDemand: &high},
		}
		res, err := e.Run(context.Background(), rows, []Distance{{"A", "B", 3}}, evalDate)
		require.NoError(t, err)
		assert.Equal(t, "20250101_000000", res.RunID)
		require.Len(t, res.Inventory, 2)
		assert.Equal(t, res.RunID, res.Inventory[0].RunID)
		assert.Greater(t, res.Inventory[0].Discount, 0.0)
		require.Len(t, res.Transfers, 1)
		assert.Equal(t, 35, res.Transfers[0].Quantity)
	})

	t.Run("duplicate store rows with a diagonal distance", func(t *testing.T) {
		expiry := evalDate.AddDate(0, 0, 1)
		low, high := 10.0, 40.0
		rows := []RawInventory{
			{StoreID: "S1", ProductID: "P1", Stock: 50, ExpiryDate: expiry, ShelfLifeDays: 30, MRP: 20, PredictedDemand: &low},
			{StoreID: "S1", ProductID: "P1", Stock: 5, ExpiryDate: expiry, ShelfLifeDays: 30, MRP: 20, PredictedDemand: &high},
		}
		res, err := e.Run(context.Background(), rows, []Distance{{"S1", "S1", 0}}, evalDate)
		require.NoError(t, err)
		assert.Empty(t, res.Transfers)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rows := []RawInventory{{StoreID: "S1", ProductID: "P1", ExpiryDate: evalDate}}
		_, err := e.Run(ctx, rows, nil, evalDate)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
