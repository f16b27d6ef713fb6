package dataprep

import (
	"fmt"
	"time"

	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// lowPositiveClassThreshold flags datasets with too few positive labels to
// train a useful classifier.
const lowPositiveClassThreshold = 100

// Validate computes a data-quality snapshot of the dataset. It is a pure
// function: the dataset is never modified, and the same input always yields
// the same report (modulo the timestamp). Issues are advisory.
func Validate(ds *entity.Dataset, targetCol string) *entity.ValidationReport {
	report := &entity.ValidationReport{
		TotalRows:          ds.NumRows(),
		TotalColumns:       ds.NumColumns(),
		TargetDistribution: map[int]int{},
		GeneratedAt:        time.Now().UTC(),
	}

	for _, row := range ds.Rows {
		for _, v := range row {
			if entity.IsMissing(v) {
				report.MissingValues++
			}
		}
	}

	seen := make(map[string]struct{}, len(ds.Rows))
	for _, row := range ds.Rows {
		key := entity.RowKey(row)
		if _, ok := seen[key]; ok {
			report.DuplicateRows++
			continue
		}
		seen[key] = struct{}{}
	}

	if target, ok := ds.Column(targetCol); ok {
		for _, v := range target {
			switch v {
			case "1":
				report.TargetDistribution[1]++
			case "0":
				report.TargetDistribution[0]++
			}
		}
	}

	for i, name := range ds.Columns {
		if len(ds.Rows) < 2 {
			break
		}
		first := ds.Rows[0][i]
		constant := true
		for _, row := range ds.Rows[1:] {
			if row[i] != first {
				constant = false
				break
			}
		}
		if constant {
			report.ZeroVarianceColumns = append(report.ZeroVarianceColumns, name)
		}
	}

	if report.MissingValues > 0 {
		report.Issues = append(report.Issues, "missing values detected")
	}
	if report.DuplicateRows > 0 {
		report.Issues = append(report.Issues, "duplicate rows detected")
	}
	if report.TargetDistribution[1] < lowPositiveClassThreshold {
		report.Issues = append(report.Issues, "low positive class count")
	}
	for _, c := range report.ZeroVarianceColumns {
		report.Issues = append(report.Issues, fmt.Sprintf("zero variance column: %s", c))
	}

	return report
}
