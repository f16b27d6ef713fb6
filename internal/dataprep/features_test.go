package dataprep

import (
	"reflect"
	"testing"

	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

func TestAddRatioFeatures(t *testing.T) {
	ds := entity.NewDataset(
		[]string{"tenure", "MonthlyCharges", "TotalCharges"},
		[][]string{
			{"2", "50", "100"},
			{"0", "29.85", "29.85"}, // zero tenure
			{"10", "20", "0"},       // zero total
		},
	)

	out, err := AddRatioFeatures(ds, "tenure", "MonthlyCharges", "TotalCharges")
	if err != nil {
		t.Fatalf("AddRatioFeatures() error = %v", err)
	}

	perMonthIdx := out.ColumnIndex(ColTotalChargesPerMonth)
	ratioIdx := out.ColumnIndex(ColMonthlyChargesRatio)
	if perMonthIdx < 0 || ratioIdx < 0 {
		t.Fatalf("derived columns absent: %v", out.Columns)
	}

	if got := out.Rows[0][perMonthIdx]; got != "50" {
		t.Errorf("TotalChargesPerMonth = %q, want %q", got, "50")
	}
	if got := out.Rows[0][ratioIdx]; got != "0.5" {
		t.Errorf("MonthlyChargesRatio = %q, want %q", got, "0.5")
	}

	// Zero denominators produce 0, never NaN or Inf.
	if got := out.Rows[1][perMonthIdx]; got != "0" {
		t.Errorf("zero tenure: TotalChargesPerMonth = %q, want %q", got, "0")
	}
	if got := out.Rows[2][ratioIdx]; got != "0" {
		t.Errorf("zero total: MonthlyChargesRatio = %q, want %q", got, "0")
	}
}

func TestAddRatioFeaturesNonNumeric(t *testing.T) {
	ds := entity.NewDataset(
		[]string{"tenure", "MonthlyCharges", "TotalCharges"},
		[][]string{{"x", "50", "100"}},
	)

	_, err := AddRatioFeatures(ds, "tenure", "MonthlyCharges", "TotalCharges")
	if !domain.IsSchemaViolation(err) {
		t.Errorf("error = %v, want schema violation", err)
	}
}

func TestOneHotEncode(t *testing.T) {
	ds := entity.NewDataset(
		[]string{"customerID", "gender", "tenure", "Contract"},
		[][]string{
			{"0001", "Female", "1", "Month-to-month"},
			{"0002", "Male", "34", "One year"},
			{"0003", "Male", "2", "Two year"},
		},
	)

	out, err := OneHotEncode(ds, []string{"gender", "Contract"}, "customerID")
	if err != nil {
		t.Fatalf("OneHotEncode() error = %v", err)
	}

	// Identifier first, passthrough in original order, dummies sorted by
	// (column, category) with the first category of each column dropped.
	wantColumns := []string{
		"customerID", "tenure",
		"Contract_One year", "Contract_Two year",
		"gender_Male",
	}
	if !reflect.DeepEqual(out.Columns, wantColumns) {
		t.Fatalf("columns = %v, want %v", out.Columns, wantColumns)
	}

	wantRows := [][]string{
		{"0001", "1", "0", "0", "0"},
		{"0002", "34", "1", "0", "1"},
		{"0003", "2", "0", "1", "1"},
	}
	if !reflect.DeepEqual(out.Rows, wantRows) {
		t.Errorf("rows = %v, want %v", out.Rows, wantRows)
	}
}

func TestOneHotEncodeDeterministic(t *testing.T) {
	ds := entity.NewDataset(
		[]string{"customerID", "b", "a"},
		[][]string{
			{"1", "x", "p"},
			{"2", "y", "q"},
		},
	)

	first, err := OneHotEncode(ds, []string{"b", "a"}, "customerID")
	if err != nil {
		t.Fatalf("first encode: %v", err)
	}
	// Listing order of the categorical columns must not matter.
	second, err := OneHotEncode(ds, []string{"a", "b"}, "customerID")
	if err != nil {
		t.Fatalf("second encode: %v", err)
	}

	if !reflect.DeepEqual(first.Columns, second.Columns) {
		t.Errorf("column order depends on input order: %v vs %v", first.Columns, second.Columns)
	}
	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Errorf("rows depend on input order")
	}
}

func TestOneHotEncodeSingleCategory(t *testing.T) {
	ds := entity.NewDataset(
		[]string{"customerID", "PhoneService"},
		[][]string{{"1", "Yes"}, {"2", "Yes"}},
	)

	out, err := OneHotEncode(ds, []string{"PhoneService"}, "customerID")
	if err != nil {
		t.Fatalf("OneHotEncode() error = %v", err)
	}
	// A single-category column collapses to nothing after the reference
	// level is dropped.
	want := []string{"customerID"}
	if !reflect.DeepEqual(out.Columns, want) {
		t.Errorf("columns = %v, want %v", out.Columns, want)
	}
}
