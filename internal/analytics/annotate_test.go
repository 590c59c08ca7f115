package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

func TestAnnotateInventory(t *testing.T) {
	items := AnnotateInventory([]domain.InventoryRecord{
		{StoreID: "S1", PredictedDemand: 300, DaysToExpiry: 3},
		{StoreID: "S2", PredictedDemand: 120, DaysToExpiry: 20},
		{StoreID: "S3", PredictedDemand: 10, DaysToExpiry: 45},
	})
	require.Len(t, items, 3)
	assert.Equal(t, domain.DemandHigh, items[0].DemandTier)
	assert.Equal(t, domain.ExpiryCritical, items[0].ExpiryStatus)
	assert.Equal(t, domain.DemandMedium, items[1].DemandTier)
	assert.Equal(t, domain.ExpiryWarning, items[1].ExpiryStatus)
	assert.Equal(t, domain.DemandLow, items[2].DemandTier)
	assert.Equal(t, domain.ExpiryGood, items[2].ExpiryStatus)
	assert.Equal(t, "S3", items[2].StoreID)
}

func TestAnnotateTransfers(t *testing.T) {
	items := AnnotateTransfers([]domain.TransferSuggestion{{DaysToExpiry: 7}, {DaysToExpiry: 15}, {DaysToExpiry: 16}})
	require.Len(t, items, 3)
	assert.Equal(t, domain.PriorityHigh, items[0].Priority)
	assert.Equal(t, domain.PriorityMedium, items[1].Priority)
	assert.Equal(t, domain.PriorityLow, items[2].Priority)
	assert.NotNil(t, AnnotateTransfers(nil))
}
