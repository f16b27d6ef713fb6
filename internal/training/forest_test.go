package training

import (
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"
)

// separableData builds a two-class dataset split cleanly on the first
// feature, plus a noise feature.
func separableData(n int, seed int64) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		if i%2 == 0 {
			x[i] = []float64{rnd.Float64() * 10, rnd.Float64()}
			y[i] = 0
		} else {
			x[i] = []float64{20 + rnd.Float64()*10, rnd.Float64()}
			y[i] = 1
		}
	}
	return x, y
}

func TestFitAndPredict(t *testing.T) {
	x, y := separableData(200, 1)

	forest := NewForest(20, 42)
	if err := forest.Fit(x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if acc := forest.Accuracy(x, y); acc < 0.99 {
		t.Errorf("accuracy = %.3f on separable data, want >= 0.99", acc)
	}

	preds := forest.Predict([][]float64{{5, 0.5}, {25, 0.5}})
	if preds[0] != 0 || preds[1] != 1 {
		t.Errorf("Predict() = %v, want [0 1]", preds)
	}
}

func TestFitReproducible(t *testing.T) {
	x, y := separableData(100, 2)

	a := NewForest(10, 42)
	b := NewForest(10, 42)
	if err := a.Fit(x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if !reflect.DeepEqual(a.Trees, b.Trees) {
		t.Error("same seed produced different forests")
	}
}

func TestFitValidation(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    []int
	}{
		{name: "empty matrix", x: nil, y: nil},
		{name: "length mismatch", x: [][]float64{{1}}, y: []int{0, 1}},
		{name: "ragged matrix", x: [][]float64{{1, 2}, {3}}, y: []int{0, 1}},
		{name: "no features", x: [][]float64{{}}, y: []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewForest(5, 1).Fit(tt.x, tt.y); err == nil {
				t.Error("Fit() error = nil, want error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	x, y := separableData(80, 3)

	forest := NewForest(5, 7)
	forest.FeatureNames = []string{"tenure", "MonthlyCharges"}
	if err := forest.Fit(x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.json")
	if err := forest.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadForest(path)
	if err != nil {
		t.Fatalf("LoadForest() error = %v", err)
	}
	if !reflect.DeepEqual(loaded.FeatureNames, forest.FeatureNames) {
		t.Errorf("FeatureNames = %v, want %v", loaded.FeatureNames, forest.FeatureNames)
	}
	if got, want := loaded.Predict(x), forest.Predict(x); !reflect.DeepEqual(got, want) {
		t.Error("loaded forest predicts differently")
	}
}

func TestSingleClass(t *testing.T) {
	x := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	y := []int{1, 1, 1}

	forest := NewForest(3, 1)
	if err := forest.Fit(x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	for _, p := range forest.Predict(x) {
		if p != 1 {
			t.Errorf("prediction = %d, want 1", p)
		}
	}
}
