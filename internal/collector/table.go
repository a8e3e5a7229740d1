package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"feargreed/pkg/contracts/domain"
)

// Table is a date keyed set of columns. Column order is kept as first seen.
type Table struct {
	columns []string
	rows    map[string]map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]map[string]string)}
}

// Columns returns the value columns, without the date column.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of dates.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) hasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn registers a column without setting any value.
func (t *Table) AddColumn(name string) {
	if !t.hasColumn(name) {
		t.columns = append(t.columns, name)
	}
}

// Set stores value at (date, column), overwriting any previous value.
func (t *Table) Set(date, column, value string) {
	t.AddColumn(column)
	row, ok := t.rows[date]
	if !ok {
		row = make(map[string]string)
		t.rows[date] = row
	}
	row[column] = value
}

// Get returns the value at (date, column).
func (t *Table) Get(date, column string) (string, bool) {
	v, ok := t.rows[date][column]
	return v, ok
}

// AddColumnValues outer joins col into the table.
func (t *Table) AddColumnValues(col Column) {
	t.AddColumn(col.Name)
	for date, v := range col.Values {
		t.Set(date, col.Name, v)
	}
}

// Merge writes every cell of other over t. Cells other does not have keep
// their current value.
func (t *Table) Merge(other *Table) {
	for _, c := range other.columns {
		t.AddColumn(c)
	}
	for date, row := range other.rows {
		for c, v := range row {
			t.Set(date, c, v)
		}
	}
}

// Only returns a copy restricted to a single date.
func (t *Table) Only(date string) *Table {
	out := NewTable()
	out.columns = t.Columns()
	if row, ok := t.rows[date]; ok {
		for c, v := range row {
			out.Set(date, c, v)
		}
	}
	return out
}

// Without returns a copy with the named columns removed. Every date is kept.
func (t *Table) Without(columns ...string) *Table {
	drop := make(map[string]bool, len(columns))
	for _, c := range columns {
		drop[c] = true
	}
	out := NewTable()
	for _, c := range t.columns {
		if !drop[c] {
			out.AddColumn(c)
		}
	}
	for date, row := range t.rows {
		out.rows[date] = make(map[string]string, len(row))
		for c, v := range row {
			if !drop[c] {
				out.Set(date, c, v)
			}
		}
	}
	return out
}

// Dates returns every date in ascending order.
func (t *Table) Dates() []string {
	dates := make([]string, 0, len(t.rows))
	for d := range t.rows {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Header returns the CSV header: the date column followed by the columns.
func (t *Table) Header() []string {
	return append([]string{domain.DateColumn}, t.columns...)
}

// Records returns one CSV row per date in ascending date order. Missing
// cells are empty.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.rows))
	for _, date := range t.Dates() {
		rec := make([]string, 0, len(t.columns)+1)
		rec = append(rec, date)
		row := t.rows[date]
		for _, c := range t.columns {
			rec = append(rec, row[c])
		}
		records = append(records, rec)
	}
	return records
}

// ReadTable reads a CSV file written by the collector. A missing file
// yields an empty table.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewTable(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readTable(f)
}

func readTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	dateIdx := -1
	for i, h := range header {
		if h == domain.DateColumn {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("no %q column", domain.DateColumn)
	}

	t := NewTable()
	for i, h := range header {
		if i != dateIdx {
			t.AddColumn(h)
		}
	}

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if dateIdx >= len(rec) || strings.TrimSpace(rec[dateIdx]) == "" {
			continue
		}
		date := strings.TrimSpace(rec[dateIdx])
		for i, h := range header {
			if i == dateIdx || i >= len(rec) {
				continue
			}
			if v := strings.TrimSpace(rec[i]); v != "" {
				t.Set(date, h, v)
			}
		}
		if _, ok := t.rows[date]; !ok {
			t.rows[date] = make(map[string]string)
		}
	}
	return t, nil
}
