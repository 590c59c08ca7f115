package domain

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// InventoryRecord is one product's stock state at one store for a run.
type InventoryRecord struct {
	ID              int64     `json:"id" db:"id"`
	RunID           string    `json:"run_id" db:"run_id"`
	StoreID         string    `json:"store_id" db:"store_id" validate:"required"`
	ProductID       string    `json:"product_id" db:"product_id" validate:"required"`
	ProductName     string    `json:"product_name" db:"product_name"`
	Stock           int       `json:"stock" db:"stock" validate:"gte=0"`
	ExpiryDate      time.Time `json:"expiry_date" db:"expiry_date"`
	ShelfLifeDays   int       `json:"shelf_life_days" db:"shelf_life_days" validate:"gte=0"`
	DaysToExpiry    int       `json:"days_to_expiry" db:"days_to_expiry"`
	RemainingRatio  float64   `json:"remaining_ratio" db:"remaining_ratio" validate:"gte=0"`
	AvgDailySales   float64   `json:"avg_daily_sales" db:"avg_daily_sales" validate:"gte=0"`
	ExpectedSales   float64   `json:"expected_sales" db:"expected_sales" validate:"gte=0"`
	PredictedDemand float64   `json:"predicted_demand" db:"predicted_demand" validate:"gte=0"`
	MRP             float64   `json:"MRP" db:"mrp" validate:"gte=0"`
	Discount        float64   `json:"discount" db:"discount" validate:"gte=0,lte=1"`
	FinalPrice      float64   `json:"final_price" db:"final_price" validate:"gte=0"`
}

// TransferSuggestion proposes moving stock of one product batch between stores.
type TransferSuggestion struct {
	ID             int64     `json:"id" db:"id"`
	RunID          string    `json:"run_id" db:"run_id"`
	ProductID      string    `json:"product_id" db:"product_id" validate:"required"`
	FromStore      string    `json:"from_store" db:"from_store" validate:"required"`
	ToStore        string    `json:"to_store" db:"to_store" validate:"required,nefield=FromStore"`
	Quantity       int       `json:"quantity" db:"quantity" validate:"gt=0"`
	DistanceKm     float64   `json:"distance_km" db:"distance_km" validate:"gte=0"`
	ExpiryDate     time.Time `json:"expiry_date" db:"expiry_date"`
	DaysToExpiry   int       `json:"days_to_expiry" db:"days_to_expiry"`
	RemainingRatio float64   `json:"remaining_ratio" db:"remaining_ratio" validate:"gte=0,lte=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// NewInventoryRecord returns r unchanged when it satisfies every record invariant.
func NewInventoryRecord(r InventoryRecord) (InventoryRecord, error) {
	if err := r.Validate(); err != nil {
		return InventoryRecord{}, err
	}
	return r, nil
}

// NewTransferSuggestion returns t unchanged when it satisfies every record invariant.
func NewTransferSuggestion(t TransferSuggestion) (TransferSuggestion, error) {
	if err := t.Validate(); err != nil {
		return TransferSuggestion{}, err
	}
	return t, nil
}

// Key identifies the record in error messages and exclusion lists.
func (r InventoryRecord) Key() string {
	if r.ID > 0 {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.ProductID + "@" + r.StoreID
}

// Key identifies the suggestion in error messages and exclusion lists.
func (t TransferSuggestion) Key() string {
	if t.ID > 0 {
		return strconv.FormatInt(t.ID, 10)
	}
	return t.ProductID + ":" + t.FromStore + "->" + t.ToStore
}

func (r InventoryRecord) Validate() error {
	fields := fieldErrors(validate.Struct(r))
	fields = appendNonFinite(fields, map[string]float64{
		"remaining_ratio":  r.RemainingRatio,
		"avg_daily_sales":  r.AvgDailySales,
		"expected_sales":   r.ExpectedSales,
		"predicted_demand": r.PredictedDemand,
		"MRP":              r.MRP,
		"discount":         r.Discount,
		"final_price":      r.FinalPrice,
	})
	if r.Discount > 0 && r.FinalPrice > r.MRP {
		fields = append(fields, "final_price>MRP")
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Kind: "inventory record", RecordID: r.Key(), Fields: fields}
}

func (t TransferSuggestion) Validate() error {
	fields := fieldErrors(validate.Struct(t))
	fields = appendNonFinite(fields, map[string]float64{
		"distance_km":     t.DistanceKm,
		"remaining_ratio": t.RemainingRatio,
	})
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Kind: "transfer suggestion", RecordID: t.Key(), Fields: fields}
}

func fieldErrors(err error) []string {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	return fields
}

// appendNonFinite walks names in sorted order so messages are stable.
func appendNonFinite(fields []string, values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := values[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fields = append(fields, name+":finite")
		}
	}
	return fields
}
