package domain

// DemandTier buckets a predicted demand figure.
type DemandTier string

const (
	DemandHigh   DemandTier = "High"
	DemandMedium DemandTier = "Medium"
	DemandLow    DemandTier = "Low"
)

// ExpiryStatus buckets days-to-expiry by urgency.
type ExpiryStatus string

const (
	ExpiryCritical ExpiryStatus = "Critical"
	ExpiryWarning  ExpiryStatus = "Warning"
	ExpiryGood     ExpiryStatus = "Good"
)

// TransferPriority is the urgency assigned to a proposed stock movement.
type TransferPriority string

const (
	PriorityHigh   TransferPriority = "High"
	PriorityMedium TransferPriority = "Medium"
	PriorityLow    TransferPriority = "Low"
)

// RiskLevel is shared by store waste risk and portfolio risk narratives.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)
