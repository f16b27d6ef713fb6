package entity

import (
	"strconv"
	"strings"
)

// Dataset is an ordered, column-named tabular frame. Cells are kept as
// strings until a stage needs them as numbers; cleaned datasets hold numeric
// columns as their canonical strconv formatting so CSV round trips are
// byte-stable.
//
// Stages never mutate a Dataset in place: each transform returns a new one.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// NewDataset builds a dataset from a header and rows.
func NewDataset(columns []string, rows [][]string) *Dataset {
	return &Dataset{Columns: columns, Rows: rows}
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int {
	return len(d.Columns)
}

// Shape returns (rows, columns).
func (d *Dataset) Shape() (int, int) {
	return len(d.Rows), len(d.Columns)
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's values. The second return is
// false when the column does not exist.
func (d *Dataset) Column(name string) ([]string, bool) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// FloatColumn parses the named column as float64 values.
func (d *Dataset) FloatColumn(name string) ([]float64, error) {
	col, ok := d.Column(name)
	if !ok {
		return nil, &ColumnNotFoundError{Column: name}
	}
	out := make([]float64, len(col))
	for i, v := range col {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	columns := make([]string, len(d.Columns))
	copy(columns, d.Columns)
	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = make([]string, len(row))
		copy(rows[i], row)
	}
	return &Dataset{Columns: columns, Rows: rows}
}

// RowKey returns a stable identity for a row, used for duplicate detection.
func RowKey(row []string) string {
	return strings.Join(row, "\x1f")
}

// IsMissing reports whether a cell counts as a missing value. The raw telco
// export uses a single space for absent TotalCharges, so whitespace-only
// cells are missing too.
func IsMissing(v string) bool {
	t := strings.TrimSpace(v)
	return t == "" || t == "NA" || t == "NaN" || t == "null"
}

// FormatFloat is the canonical cell formatting for numeric values.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ColumnNotFoundError reports a reference to a column the dataset lacks.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return "column not found: " + e.Column
}
