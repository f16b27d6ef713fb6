package dataprep

import (
	"reflect"
	"testing"

	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

func TestValidate(t *testing.T) {
	ds := entity.NewDataset(
		[]string{"customerID", "tenure", "Churn", "constant"},
		[][]string{
			{"0001", "1", "1", "x"},
			{"0002", "", "0", "x"},
			{"0002", "", "0", "x"}, // duplicate
		},
	)

	report := Validate(ds, "Churn")

	if report.TotalRows != 3 || report.TotalColumns != 4 {
		t.Errorf("shape = (%d, %d), want (3, 4)", report.TotalRows, report.TotalColumns)
	}
	if report.MissingValues != 2 {
		t.Errorf("MissingValues = %d, want 2", report.MissingValues)
	}
	if report.DuplicateRows != 1 {
		t.Errorf("DuplicateRows = %d, want 1", report.DuplicateRows)
	}
	if report.TargetDistribution[1] != 1 || report.TargetDistribution[0] != 2 {
		t.Errorf("TargetDistribution = %v, want map[0:2 1:1]", report.TargetDistribution)
	}
	if !reflect.DeepEqual(report.ZeroVarianceColumns, []string{"constant"}) {
		t.Errorf("ZeroVarianceColumns = %v, want [constant]", report.ZeroVarianceColumns)
	}
	if !report.HasIssues() {
		t.Error("HasIssues() = false, want true")
	}
}

func TestValidateIsPure(t *testing.T) {
	ds := entity.NewDataset(
		[]string{"customerID", "Churn"},
		[][]string{{"0001", "1"}, {"0002", "0"}},
	)
	before := ds.Clone()

	_ = Validate(ds, "Churn")

	if !reflect.DeepEqual(ds, before) {
		t.Error("Validate mutated its input")
	}
}

func TestValidateCleanDataset(t *testing.T) {
	rows := make([][]string, 0, 250)
	for i := 0; i < 250; i++ {
		id := entity.FormatFloat(float64(i))
		label := "0"
		if i%2 == 0 {
			label = "1"
		}
		rows = append(rows, []string{id, entity.FormatFloat(float64(i % 70)), label})
	}
	ds := entity.NewDataset([]string{"customerID", "tenure", "Churn"}, rows)

	report := Validate(ds, "Churn")

	if report.MissingValues != 0 {
		t.Errorf("MissingValues = %d, want 0", report.MissingValues)
	}
	if report.DuplicateRows != 0 {
		t.Errorf("DuplicateRows = %d, want 0", report.DuplicateRows)
	}
	if len(report.Issues) != 0 {
		t.Errorf("Issues = %v, want none", report.Issues)
	}
}
