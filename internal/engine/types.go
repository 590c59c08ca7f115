// Package engine turns raw inventory and distance rows into a scored run:
// derived expiry features, markdown pricing and inter-store transfer suggestions.
package engine

import (
	"time"

	"github.com/andresuchdata/smartstockx/backend-go/internal/config"
)

// RawInventory is one inventory row as read from an uploaded file.
type RawInventory struct {
	StoreID       string
	ProductID     string
	ProductName   string
	Stock         int
	ExpiryDate    time.Time
	ShelfLifeDays int
	AvgDailySales float64
	MRP           float64
	// PredictedDemand is nil when the file carries no predicted_demand column.
	PredictedDemand *float64
}

// Distance is one directed store-to-store distance row.
type Distance struct {
	FromStore  string
	ToStore    string
	DistanceKm float64
}

// DistanceMatrix looks up the distance for a directed store pair.
type DistanceMatrix map[storePair]float64

type storePair struct {
	from string
	to   string
}

// NewDistanceMatrix indexes rows by (from, to). The first row for a pair wins.
func NewDistanceMatrix(rows []Distance) DistanceMatrix {
	m := make(DistanceMatrix, len(rows))
	for _, row := range rows {
		key := storePair{from: row.FromStore, to: row.ToStore}
		if _, ok := m[key]; ok {
			continue
		}
		m[key] = row.DistanceKm
	}
	return m
}

func (m DistanceMatrix) Lookup(from, to string) (float64, bool) {
	d, ok := m[storePair{from: from, to: to}]
	return d, ok
}

// Thresholds decide which surplus batches are urgent enough to donate.
type Thresholds struct {
	RatioThreshold float64
	DaysThreshold  int
}

type PricingPolicy struct {
	BaseDiscount float64
	MaxDiscount  float64
	// UrgentDays is the absolute days-to-expiry window that drives urgency.
	UrgentDays int
}

type Config struct {
	Thresholds Thresholds
	Pricing    PricingPolicy
}

const (
	DefaultRatioThreshold = 0.10
	DefaultDaysThreshold  = 2
	DefaultBaseDiscount   = 0.10
	DefaultMaxDiscount    = 0.40
)

func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			RatioThreshold: DefaultRatioThreshold,
			DaysThreshold:  DefaultDaysThreshold,
		},
		Pricing: PricingPolicy{
			BaseDiscount: DefaultBaseDiscount,
			MaxDiscount:  DefaultMaxDiscount,
			UrgentDays:   DefaultDaysThreshold,
		},
	}
}

// ConfigFrom maps application settings onto engine settings, keeping defaults for unset values.
func ConfigFrom(c config.EngineConfig) Config {
	cfg := DefaultConfig()
	if c.RatioThreshold > 0 {
		cfg.Thresholds.RatioThreshold = c.RatioThreshold
	}
	if c.DaysThreshold > 0 {
		cfg.Thresholds.DaysThreshold = c.DaysThreshold
		cfg.Pricing.UrgentDays = c.DaysThreshold
	}
	if c.BaseDiscount > 0 {
		cfg.Pricing.BaseDiscount = c.BaseDiscount
	}
	if c.MaxDiscount > 0 {
		cfg.Pricing.MaxDiscount = c.MaxDiscount
	}
	return cfg
}
