package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() InventoryRecord {
	return InventoryRecord{
		ID:              7,
		StoreID:         "S1",
		ProductID:       "P1",
		ProductName:     "Yoghurt",
		Stock:           12,
		ShelfLifeDays:   20,
		DaysToExpiry:    5,
		RemainingRatio:  0.25,
		AvgDailySales:   2,
		ExpectedSales:   10,
		PredictedDemand: 9.5,
		MRP:             40,
		Discount:        0.1,
		FinalPrice:      36,
	}
}

func validTransfer() TransferSuggestion {
	return TransferSuggestion{
		ProductID:      "P1",
		FromStore:      "S1",
		ToStore:        "S2",
		Quantity:       3,
		DistanceKm:     12,
		DaysToExpiry:   2,
		RemainingRatio: 0.1,
	}
}

func TestNewInventoryRecord(t *testing.T) {
	r, err := NewInventoryRecord(validRecord())
	require.NoError(t, err)
	assert.Equal(t, validRecord(), r)
}

func TestInventoryRecordValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InventoryRecord)
		field  string
	}{
		{"negative stock", func(r *InventoryRecord) { r.Stock = -1 }, "stock:gte"},
		{"missing store", func(r *InventoryRecord) { r.StoreID = "" }, "store_id:required"},
		{"discount above one", func(r *InventoryRecord) { r.Discount = 1.5 }, "discount:lte"},
		{"final price above MRP", func(r *InventoryRecord) { r.FinalPrice = 41 }, "final_price>MRP"},
		{"nan demand", func(r *InventoryRecord) { r.PredictedDemand = math.NaN() }, "predicted_demand:finite"},
		{"infinite sales", func(r *InventoryRecord) { r.ExpectedSales = math.Inf(1) }, "expected_sales:finite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)

			_, err := NewInventoryRecord(r)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "7", verr.RecordID)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestInventoryRecordAllowsExpiredStock(t *testing.T) {
	r := validRecord()
	r.DaysToExpiry = -4
	assert.NoError(t, r.Validate())
}

func TestFinalPriceAboveMRPWithoutDiscount(t *testing.T) {
	r := validRecord()
	r.Discount = 0
	r.FinalPrice = 50
	assert.NoError(t, r.Validate())
}

func TestTransferSuggestionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransferSuggestion)
		field  string
	}{
		{"same store", func(s *TransferSuggestion) { s.ToStore = "S1" }, "to_store:nefield"},
		{"zero quantity", func(s *TransferSuggestion) { s.Quantity = 0 }, "quantity:gt"},
		{"negative distance", func(s *TransferSuggestion) { s.DistanceKm = -1 }, "distance_km:gte"},
		{"ratio above one", func(s *TransferSuggestion) { s.RemainingRatio = 1.2 }, "remaining_ratio:lte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validTransfer()
			tt.mutate(&s)

			_, err := NewTransferSuggestion(s)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
			assert.Equal(t, "P1:S1->S2", validTransfer().Key())
		})
	}
}

func TestRecordKey(t *testing.T) {
	r := validRecord()
	r.ID = 0
	assert.Equal(t, "P1@S1", r.Key())
}
