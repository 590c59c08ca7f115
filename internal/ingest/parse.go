package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
	"github.com/andresuchdata/smartstockx/backend-go/internal/engine"
)

var inventoryColumns = []string{
	"store_id", "product_id", "stock", "expiry_date", "shelf_life_days", "avg_daily_sales",
}

var distanceColumns = []string{"from_store", "to_store", "distance_km"}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
}

// ParseInventory reads inventory rows. A price column is accepted in place of MRP.
func ParseInventory(r io.Reader, name string) ([]engine.RawInventory, error) {
	t, err := readTable(r, name)
	if err != nil {
		return nil, err
	}
	if err := t.require(inventoryColumns...); err != nil {
		return nil, fmt.Errorf("inventory file %s: %w", name, err)
	}
	priceCol := "mrp"
	if !t.has(priceCol) {
		if !t.has("price") {
			return nil, fmt.Errorf("inventory file %s: missing required columns MRP: %w", name, domain.ErrInvalidInput)
		}
		priceCol = "price"
	}
	hasDemand := t.has("predicted_demand")

	out := make([]engine.RawInventory, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		p := rowParser{t: t, row: row}

		item := engine.RawInventory{
			StoreID:       p.text("store_id"),
			ProductID:     p.text("product_id"),
			ProductName:   p.text("product_name"),
			Stock:         p.integer("stock"),
			ExpiryDate:    p.date("expiry_date"),
			ShelfLifeDays: p.integer("shelf_life_days"),
			AvgDailySales: p.number("avg_daily_sales"),
			MRP:           p.number(priceCol),
		}
		if item.ProductName == "" {
			item.ProductName = "Unknown"
		}
		if hasDemand && p.text("predicted_demand") != "" {
			demand := p.number("predicted_demand")
			item.PredictedDemand = &demand
		}
		if p.err != nil {
			return nil, fmt.Errorf("inventory file %s line %d: %w", name, line, p.err)
		}
		out = append(out, item)
	}
	return out, nil
}

func ParseDistances(r io.Reader, name string) ([]engine.Distance, error) {
	t, err := readTable(r, name)
	if err != nil {
		return nil, err
	}
	if err := t.require(distanceColumns...); err != nil {
		return nil, fmt.Errorf("distance file %s: %w", name, err)
	}

	out := make([]engine.Distance, 0, len(t.rows))
	for i, row := range t.rows {
		p := rowParser{t: t, row: row}
		d := engine.Distance{
			FromStore:  p.text("from_store"),
			ToStore:    p.text("to_store"),
			DistanceKm: p.number("distance_km"),
		}
		if p.err != nil {
			return nil, fmt.Errorf("distance file %s line %d: %w", name, i+2, p.err)
		}
		out = append(out, d)
	}
	return out, nil
}

func ReadInventoryFile(path string) ([]engine.RawInventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory file: %w", err)
	}
	defer f.Close()
	return ParseInventory(f, path)
}

func ReadDistanceFile(path string) ([]engine.Distance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open distance file: %w", err)
	}
	defer f.Close()
	return ParseDistances(f, path)
}

// rowParser keeps the first conversion error so a row is checked in one pass.
type rowParser struct {
	t   *table
	row []string
	err error
}

func (p *rowParser) text(col string) string {
	return p.t.value(p.row, col)
}

func (p *rowParser) dec(col string) decimal.Decimal {
	raw := strings.ReplaceAll(p.text(col), ",", "")
	if raw == "" {
		p.fail(col, raw)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.fail(col, raw)
		return decimal.Zero
	}
	return d
}

func (p *rowParser) number(col string) float64 {
	return p.dec(col).InexactFloat64()
}

// integer accepts whole values written with a fractional part such as "12.0".
func (p *rowParser) integer(col string) int {
	d := p.dec(col)
	if !d.IsInteger() {
		p.fail(col, d.String())
		return 0
	}
	return int(d.IntPart())
}

func (p *rowParser) date(col string) time.Time {
	raw := p.text(col)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	p.fail(col, raw)
	return time.Time{}
}

func (p *rowParser) fail(col, raw string) {
	if p.err == nil {
		p.err = fmt.Errorf("column %s: invalid value %q: %w", col, raw, domain.ErrInvalidInput)
	}
}
