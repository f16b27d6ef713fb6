package dataprep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// RequireColumns fails with a schema violation when any named column is
// absent from the dataset.
func RequireColumns(ds *entity.Dataset, columns []string) error {
	var missing []string
	for _, c := range columns {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return domain.NewSchemaViolationError(
			fmt.Sprintf("required columns absent: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// DropDuplicates removes exact duplicate rows, keeping the first occurrence.
// Returns the new dataset and the number of rows removed.
func DropDuplicates(ds *entity.Dataset) (*entity.Dataset, int) {
	seen := make(map[string]struct{}, len(ds.Rows))
	rows := make([][]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		key := entity.RowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	out := entity.NewDataset(ds.Columns, rows)
	return out, ds.NumRows() - out.NumRows()
}

// DropMissing removes rows that have a missing value in any tracked column.
// Returns the new dataset and the number of rows removed.
func DropMissing(ds *entity.Dataset, tracked []string) (*entity.Dataset, int, error) {
	indices := make([]int, 0, len(tracked))
	for _, c := range tracked {
		idx := ds.ColumnIndex(c)
		if idx < 0 {
			return nil, 0, domain.NewSchemaViolationError(fmt.Sprintf("tracked column %q absent", c))
		}
		indices = append(indices, idx)
	}

	rows := make([][]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		keep := true
		for _, idx := range indices {
			if entity.IsMissing(row[idx]) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, row)
		}
	}
	out := entity.NewDataset(ds.Columns, rows)
	return out, ds.NumRows() - out.NumRows(), nil
}

// CoerceNumeric rewrites the named column as canonical float formatting and
// drops rows whose value does not parse (the pandas to_numeric + dropna
// equivalent). Returns the new dataset and the number of rows dropped.
func CoerceNumeric(ds *entity.Dataset, column string) (*entity.Dataset, int, error) {
	idx := ds.ColumnIndex(column)
	if idx < 0 {
		return nil, 0, domain.NewSchemaViolationError(fmt.Sprintf("numeric column %q absent", column))
	}

	rows := make([][]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		f, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			continue
		}
		next := make([]string, len(row))
		copy(next, row)
		next[idx] = entity.FormatFloat(f)
		rows = append(rows, next)
	}
	out := entity.NewDataset(ds.Columns, rows)
	return out, ds.NumRows() - out.NumRows(), nil
}

// MapTarget rewrites the target column through the mapping. Any value
// outside the mapping's domain is a schema violation: the label must be
// total and exact.
func MapTarget(ds *entity.Dataset, column string, mapping map[string]string) (*entity.Dataset, error) {
	idx := ds.ColumnIndex(column)
	if idx < 0 {
		return nil, domain.NewSchemaViolationError(fmt.Sprintf("target column %q absent", column))
	}

	rows := make([][]string, 0, len(ds.Rows))
	for i, row := range ds.Rows {
		mapped, ok := mapping[row[idx]]
		if !ok {
			return nil, domain.NewSchemaViolationError(
				fmt.Sprintf("row %d: unmappable target value %q", i, row[idx]))
		}
		next := make([]string, len(row))
		copy(next, row)
		next[idx] = mapped
		rows = append(rows, next)
	}
	return entity.NewDataset(ds.Columns, rows), nil
}
