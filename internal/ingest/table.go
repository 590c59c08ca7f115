// Package ingest reads uploaded inventory and distance files into engine rows.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// table is a header-indexed set of rows. Header names are matched case-insensitively.
type table struct {
	columns map[string]int
	rows    [][]string
}

func readTable(r io.Reader, name string) (*table, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r)
	default:
		records, err = readCSV(r)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row: %w", name, domain.ErrInvalidInput)
	}

	t := &table{columns: make(map[string]int, len(records[0]))}
	for i, col := range records[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, dup := t.columns[key]; !dup {
			t.columns[key] = i
		}
	}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		records = append(records, rec)
	}
}

// readXLSX returns the formatted cell values of the first sheet.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets: %w", domain.ErrInvalidInput)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// require reports every absent column at once.
func (t *table) require(cols ...string) error {
	var missing []string
	for _, col := range cols {
		if !t.has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns %s: %w", strings.Join(missing, ", "), domain.ErrInvalidInput)
	}
	return nil
}

func (t *table) has(col string) bool {
	_, ok := t.columns[strings.ToLower(col)]
	return ok
}

func (t *table) value(row []string, col string) string {
	idx, ok := t.columns[strings.ToLower(col)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
