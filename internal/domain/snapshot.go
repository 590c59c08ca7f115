package domain

import "time"

// StorePerformance is the rollup of every inventory record sharing a store id.
type StorePerformance struct {
	StoreID       string    `json:"id"`
	Efficiency    int       `json:"efficiency"`
	WasteRisk     RiskLevel `json:"waste_risk"`
	Revenue       int64     `json:"revenue"`
	Items         int       `json:"items"`
	ExpiringItems int       `json:"expiring_items"`
}

// DemandPoint is one bar of the demand ranking.
type DemandPoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// RiskNarrative is one entry of the portfolio risk assessment.
type RiskNarrative struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       RiskLevel `json:"level"`
	Count       int       `json:"count"`
	Impact      string    `json:"impact"`
}

// PriorityCounts counts transfers per TransferPriority.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// TransferSummary aggregates a transfer suggestion collection.
type TransferSummary struct {
	Total             int            `json:"total"`
	ByPriority        PriorityCounts `json:"by_priority"`
	AverageDistanceKm float64        `json:"average_distance_km"`
	TotalQuantity     int64          `json:"total_quantity"`
}

// InventoryStats are the headline counters of the inventory listing.
type InventoryStats struct {
	TotalItems      int   `json:"total_items"`
	TotalStock      int64 `json:"total_stock"`
	ExpiringItems   int   `json:"expiring_items"`
	HighDemandItems int   `json:"high_demand_items"`
}

// Exclusion records an input record that was left out of an analytics pass.
type Exclusion struct {
	Kind     string `json:"kind"`
	RecordID string `json:"record_id"`
	Reason   string `json:"reason"`
}

// PortfolioSnapshot is the full result of one analytics pass.
type PortfolioSnapshot struct {
	RunID             string             `json:"run_id,omitempty"`
	TotalRevenue      float64            `json:"total_revenue"`
	PotentialLoss     float64            `json:"potential_loss"`
	DemandPredictions []DemandPoint      `json:"demand_predictions"`
	Risks             []RiskNarrative    `json:"risks"`
	StorePerformance  []StorePerformance `json:"store_performance"`
	TotalProducts     int                `json:"total_products"`
	TotalTransfers    int                `json:"total_transfers"`
	AvgDaysToExpiry   int64              `json:"avg_days_to_expiry"`
	HighDemandItems   int                `json:"high_demand_items"`
	HighDemandShare   int64              `json:"high_demand_share"`
	StockOutlook      string             `json:"stock_outlook"`
	Transfers         TransferSummary    `json:"transfers"`
	Exclusions        []Exclusion        `json:"exclusions,omitempty"`
}

// InventoryFilter narrows the inventory listing. Zero values match everything.
type InventoryFilter struct {
	Search   string `json:"search"`
	StoreID  string `json:"store_id"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Run describes one ingestion of inventory and distance files.
type Run struct {
	ID             string    `json:"id" db:"id"`
	Source         string    `json:"source" db:"source"`
	InventoryCount int       `json:"inventory_count" db:"inventory_count"`
	TransferCount  int       `json:"transfer_count" db:"transfer_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// InventoryItem is an inventory record annotated with its classifications.
type InventoryItem struct {
	InventoryRecord
	DemandTier   DemandTier   `json:"demand_tier"`
	ExpiryStatus ExpiryStatus `json:"expiry_status"`
}

// InventoryPage is one page of the inventory listing.
type InventoryPage struct {
	Items    []InventoryItem `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// TransferItem is a transfer suggestion annotated with its priority.
type TransferItem struct {
	TransferSuggestion
	Priority TransferPriority `json:"priority"`
}
