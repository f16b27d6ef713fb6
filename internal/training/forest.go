// Package training implements the in-process random forest classifier used
// for the churn model. The original workflow fit the model locally before
// handing the artifact to the serving platform; this package does the same.
package training

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// Forest is a bagged ensemble of CART trees with majority voting.
type Forest struct {
	Estimators      int       `json:"estimators"`
	MaxDepth        int       `json:"max_depth"`
	MinSamplesSplit int       `json:"min_samples_split"`
	Seed            int64     `json:"seed"`
	FeatureNames    []string  `json:"feature_names"`
	Trees           []*Node   `json:"trees"`
	TrainedAt       time.Time `json:"trained_at"`
}

// NewForest creates an untrained forest. A fixed seed keeps training
// reproducible across runs.
func NewForest(estimators int, seed int64) *Forest {
	return &Forest{
		Estimators:      estimators,
		MaxDepth:        12,
		MinSamplesSplit: 2,
		Seed:            seed,
	}
}

// Fit trains the forest on a dense numeric matrix and integer labels. Each
// tree gets a bootstrap sample and a sqrt(p) feature subset per split.
func (f *Forest) Fit(x [][]float64, y []int) error {
	if len(x) == 0 {
		return errors.New("training: empty feature matrix")
	}
	if len(y) != len(x) {
		return errors.New("training: feature matrix and labels length mismatch")
	}
	width := len(x[0])
	for _, row := range x {
		if len(row) != width {
			return errors.New("training: ragged feature matrix")
		}
	}
	if width == 0 {
		return errors.New("training: no feature columns")
	}

	n := len(x)
	params := treeParams{
		maxDepth:        f.MaxDepth,
		minSamplesSplit: f.MinSamplesSplit,
		maxFeatures:     int(math.Max(1, math.Round(math.Sqrt(float64(width))))),
	}

	f.Trees = make([]*Node, f.Estimators)
	for t := 0; t < f.Estimators; t++ {
		rnd := rand.New(rand.NewSource(f.Seed + int64(t)))
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rnd.Intn(n)
		}
		f.Trees[t] = buildTree(x, y, sample, 0, params, rnd)
	}
	f.TrainedAt = time.Now().UTC()
	return nil
}

// Predict returns the majority-vote class for each row.
func (f *Forest) Predict(x [][]float64) []int {
	out := make([]int, len(x))
	for i, sample := range x {
		votes := make(map[int]int)
		for _, tree := range f.Trees {
			votes[predictTree(tree, sample)]++
		}
		out[i] = majorityClass(votes)
	}
	return out
}

// Accuracy scores predictions against true labels.
func (f *Forest) Accuracy(x [][]float64, y []int) float64 {
	if len(x) == 0 {
		return 0
	}
	preds := f.Predict(x)
	correct := 0
	for i, p := range preds {
		if p == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}

// Save writes the trained forest as a JSON artifact.
func (f *Forest) Save(path string) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// LoadForest reads a previously saved forest artifact.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
