// Package table holds the in-memory tabular model the splitter works on:
// an ordered set of uniquely named columns and rows of typed cells, read
// from and written back to CSV.
package table

import (
	"github.com/Lllllllleong/csvsplitter/internal/apperr"
)

// Row is one record, one value per column.
type Row []Value

// Texts returns the CSV text of every cell in r.
func (r Row) Texts() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.Text()
	}
	return out
}

// Dataset is immutable once constructed. Accessors hand out copies.
type Dataset struct {
	columns []string
	rows    []Row
}

// New builds a Dataset, checking that column names are unique and that
// every row has exactly one value per column.
func New(columns []string, rows []Row) (*Dataset, error) {
	if err := validateColumnNames(columns); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, apperr.Inputf("table.New", "row %d has %d values, expected %d", i+1, len(r), len(columns))
		}
	}

	ds := &Dataset{
		columns: append([]string(nil), columns...),
		rows:    make([]Row, len(rows)),
	}
	for i, r := range rows {
		ds.rows[i] = append(Row(nil), r...)
	}
	return ds, nil
}

// FromStrings builds a Dataset from raw CSV records, inferring each cell.
func FromStrings(columns []string, records [][]string) (*Dataset, error) {
	rows := make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, len(rec))
		for j, text := range rec {
			row[j] = Infer(text)
		}
		rows[i] = row
	}
	return New(columns, rows)
}

func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

func (d *Dataset) NumColumns() int { return len(d.columns) }

func (d *Dataset) NumRows() int { return len(d.rows) }

// Row returns a copy of row i (0-based).
func (d *Dataset) Row(i int) Row { return append(Row(nil), d.rows[i]...) }

// Rows returns a copy of the rows in [start, end).
func (d *Dataset) Rows(start, end int) []Row {
	out := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, d.Row(i))
	}
	return out
}

func validateColumnNames(columns []string) error {
	seen := make(map[string]int, len(columns))
	for i, name := range columns {
		if prev, ok := seen[name]; ok {
			return apperr.Inputf("table.New", "duplicate column name %q at positions %d and %d", name, prev+1, i+1)
		}
		seen[name] = i
	}
	return nil
}
