package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/mocks"
)

// writeTrainingCSV writes a cleaned, separable dataset: churners have high
// monthly charges and short tenure.
func writeTrainingCSV(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("customerID,tenure,MonthlyCharges,Churn\n")
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&b, "%04d,%d,%d,0\n", i, 50+i%20, 20+i%10)
		} else {
			fmt.Fprintf(&b, "%04d,%d,%d,1\n", i, i%5, 100+i%10)
		}
	}
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestTrain(t *testing.T) {
	cfg := testConfig()
	cfg.Model.ModelFile = filepath.Join(t.TempDir(), "churn_model.json")
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	trainer := NewTrainingUsecase(cfg, nil, logger)
	result, err := trainer.Train(context.Background(), writeTrainingCSV(t, 200), false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if result.SampleCount != 200 {
		t.Errorf("SampleCount = %d, want 200", result.SampleCount)
	}
	if result.FeatureCount != 2 {
		t.Errorf("FeatureCount = %d, want 2", result.FeatureCount)
	}
	if result.Accuracy < 0.95 {
		t.Errorf("accuracy = %.3f on separable data, want >= 0.95", result.Accuracy)
	}
	if result.ArtifactURI != "" {
		t.Errorf("ArtifactURI = %q, want empty without upload", result.ArtifactURI)
	}
	if _, err := os.Stat(cfg.Model.ModelFile); err != nil {
		t.Errorf("model artifact not written: %v", err)
	}
}

func TestTrainUploadsArtifact(t *testing.T) {
	cfg := testConfig()
	cfg.Model.ModelFile = filepath.Join(t.TempDir(), "churn_model.json")
	cfg.Storage.ModelsPrefix = "models"
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := &mocks.MockObjectStore{}

	trainer := NewTrainingUsecase(cfg, store, logger)
	result, err := trainer.Train(context.Background(), writeTrainingCSV(t, 100), true)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if result.ArtifactURI == "" {
		t.Error("ArtifactURI is empty after upload")
	}
	if len(store.Uploaded) != 1 {
		t.Fatalf("uploads = %d, want 1", len(store.Uploaded))
	}
	if !strings.HasPrefix(store.Uploaded[0], "models/") {
		t.Errorf("object path = %q, want models/ prefix", store.Uploaded[0])
	}
}

func TestTrainRejectsUnmappedTarget(t *testing.T) {
	cfg := testConfig()
	cfg.Model.ModelFile = filepath.Join(t.TempDir(), "churn_model.json")
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	path := filepath.Join(t.TempDir(), "raw.csv")
	raw := "customerID,tenure,MonthlyCharges,Churn\n0001,1,29.85,Yes\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	trainer := NewTrainingUsecase(cfg, nil, logger)
	_, err := trainer.Train(context.Background(), path, false)
	if !domain.IsSchemaViolation(err) {
		t.Errorf("error = %v, want schema violation on raw labels", err)
	}
}

func TestTrainMissingDataFile(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	trainer := NewTrainingUsecase(cfg, nil, logger)
	_, err := trainer.Train(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), false)
	if err == nil {
		t.Error("Train() error = nil for missing data file")
	}
}
