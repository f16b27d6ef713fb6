package dataprep

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// Derived feature column names.
const (
	ColTotalChargesPerMonth = "TotalChargesPerMonth"
	ColMonthlyChargesRatio  = "MonthlyChargesRatio"
)

// safeDiv divides a by b, substituting 0 when the denominator is zero.
// Zero-tenure customers get 0 for both ratio features rather than NaN/Inf.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// AddRatioFeatures appends TotalChargesPerMonth (TotalCharges/tenure) and
// MonthlyChargesRatio (MonthlyCharges/TotalCharges) as new columns.
func AddRatioFeatures(ds *entity.Dataset, tenureCol, monthlyCol, totalCol string) (*entity.Dataset, error) {
	if err := RequireColumns(ds, []string{tenureCol, monthlyCol, totalCol}); err != nil {
		return nil, err
	}
	tenureIdx := ds.ColumnIndex(tenureCol)
	monthlyIdx := ds.ColumnIndex(monthlyCol)
	totalIdx := ds.ColumnIndex(totalCol)

	columns := append(append([]string{}, ds.Columns...), ColTotalChargesPerMonth, ColMonthlyChargesRatio)
	rows := make([][]string, len(ds.Rows))
	for i, row := range ds.Rows {
		tenure, err := strconv.ParseFloat(strings.TrimSpace(row[tenureIdx]), 64)
		if err != nil {
			return nil, domain.NewSchemaViolationError(
				fmt.Sprintf("row %d: non-numeric %s value %q", i, tenureCol, row[tenureIdx]))
		}
		monthly, err := strconv.ParseFloat(strings.TrimSpace(row[monthlyIdx]), 64)
		if err != nil {
			return nil, domain.NewSchemaViolationError(
				fmt.Sprintf("row %d: non-numeric %s value %q", i, monthlyCol, row[monthlyIdx]))
		}
		total, err := strconv.ParseFloat(strings.TrimSpace(row[totalIdx]), 64)
		if err != nil {
			return nil, domain.NewSchemaViolationError(
				fmt.Sprintf("row %d: non-numeric %s value %q", i, totalCol, row[totalIdx]))
		}

		next := make([]string, 0, len(row)+2)
		next = append(next, row...)
		next = append(next,
			entity.FormatFloat(safeDiv(total, tenure)),
			entity.FormatFloat(safeDiv(monthly, total)))
		rows[i] = next
	}
	return entity.NewDataset(columns, rows), nil
}

// OneHotEncode dummy-encodes the given categorical columns, dropping the
// lexicographically first category of each column as the reference level.
//
// Output column order is deterministic: the identifier first, then every
// non-encoded column in its original order, then dummy columns sorted by
// (source column, category). Dummy columns are named <column>_<category>.
func OneHotEncode(ds *entity.Dataset, categorical []string, idCol string) (*entity.Dataset, error) {
	if err := RequireColumns(ds, categorical); err != nil {
		return nil, err
	}
	if !ds.HasColumn(idCol) {
		return nil, domain.NewSchemaViolationError(fmt.Sprintf("identifier column %q absent", idCol))
	}

	encoded := make(map[string]bool, len(categorical))
	for _, c := range categorical {
		encoded[c] = true
	}

	// Collect sorted categories per encoded column; the first is dropped to
	// avoid dummy collinearity.
	categories := make(map[string][]string, len(categorical))
	for _, c := range categorical {
		idx := ds.ColumnIndex(c)
		uniq := make(map[string]struct{})
		for _, row := range ds.Rows {
			uniq[row[idx]] = struct{}{}
		}
		values := make([]string, 0, len(uniq))
		for v := range uniq {
			values = append(values, v)
		}
		sort.Strings(values)
		if len(values) > 1 {
			values = values[1:]
		} else {
			values = nil
		}
		categories[c] = values
	}

	sortedCategorical := append([]string{}, categorical...)
	sort.Strings(sortedCategorical)

	// Passthrough columns keep their original order, identifier pulled first.
	passthrough := make([]string, 0, len(ds.Columns))
	for _, c := range ds.Columns {
		if c != idCol && !encoded[c] {
			passthrough = append(passthrough, c)
		}
	}

	columns := make([]string, 0, len(passthrough)+1)
	columns = append(columns, idCol)
	columns = append(columns, passthrough...)
	for _, c := range sortedCategorical {
		for _, v := range categories[c] {
			columns = append(columns, c+"_"+v)
		}
	}

	idIdx := ds.ColumnIndex(idCol)
	passIdx := make([]int, len(passthrough))
	for i, c := range passthrough {
		passIdx[i] = ds.ColumnIndex(c)
	}

	rows := make([][]string, len(ds.Rows))
	for i, row := range ds.Rows {
		next := make([]string, 0, len(columns))
		next = append(next, row[idIdx])
		for _, idx := range passIdx {
			next = append(next, row[idx])
		}
		for _, c := range sortedCategorical {
			idx := ds.ColumnIndex(c)
			for _, v := range categories[c] {
				if row[idx] == v {
					next = append(next, "1")
				} else {
					next = append(next, "0")
				}
			}
		}
		rows[i] = next
	}
	return entity.NewDataset(columns, rows), nil
}
