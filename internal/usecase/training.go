package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/merongithub/ChurnPrediction/internal/config"
	"github.com/merongithub/ChurnPrediction/internal/dataprep"
	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
	"github.com/merongithub/ChurnPrediction/internal/training"
)

// TrainingUsecase fits the churn random forest on a cleaned dataset and
// persists the model artifact, optionally uploading it to blob storage.
type TrainingUsecase interface {
	Train(ctx context.Context, dataPath string, uploadArtifact bool) (*entity.TrainingResult, error)
}

type trainingUsecase struct {
	cfg    *config.Config
	store  domain.ObjectStore
	logger *slog.Logger
}

// NewTrainingUsecase creates a training usecase. store may be nil when the
// artifact should only be written locally.
func NewTrainingUsecase(cfg *config.Config, store domain.ObjectStore, logger *slog.Logger) TrainingUsecase {
	return &trainingUsecase{cfg: cfg, store: store, logger: logger}
}

// Train loads the dataset (dataPath overrides the configured cleaned path),
// selects the configured feature columns and the numeric target, fits the
// forest, and saves the artifact.
func (u *trainingUsecase) Train(ctx context.Context, dataPath string, uploadArtifact bool) (*entity.TrainingResult, error) {
	if dataPath == "" {
		dataPath = u.cfg.Data.CleanedPath
	}

	f, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer f.Close()

	ds, err := dataprep.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse training data: %w", err)
	}

	x, y, err := u.matrix(ds)
	if err != nil {
		return nil, err
	}

	forest := training.NewForest(u.cfg.Model.Estimators, u.cfg.Model.Seed)
	forest.FeatureNames = append([]string{}, u.cfg.Model.FeatureColumns...)

	u.logger.Info("training random forest",
		"samples", len(x),
		"features", len(u.cfg.Model.FeatureColumns),
		"estimators", u.cfg.Model.Estimators,
	)
	if err := forest.Fit(x, y); err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	accuracy := forest.Accuracy(x, y)

	if err := forest.Save(u.cfg.Model.ModelFile); err != nil {
		return nil, fmt.Errorf("failed to save model artifact: %w", err)
	}
	u.logger.Info("model trained and saved",
		"file", u.cfg.Model.ModelFile,
		"train_accuracy", accuracy,
	)

	result := &entity.TrainingResult{
		ModelFile:    u.cfg.Model.ModelFile,
		Accuracy:     accuracy,
		SampleCount:  len(x),
		FeatureCount: len(u.cfg.Model.FeatureColumns),
		TrainedAt:    forest.TrainedAt,
	}

	if uploadArtifact && u.store != nil {
		data, err := os.ReadFile(u.cfg.Model.ModelFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read model artifact: %w", err)
		}
		objectPath := fmt.Sprintf("%s/%s",
			strings.TrimSuffix(u.cfg.Storage.ModelsPrefix, "/"), u.cfg.Model.ModelFile)
		uri, err := u.store.Upload(ctx, objectPath, data)
		if err != nil {
			return nil, fmt.Errorf("failed to upload model artifact: %w", err)
		}
		result.ArtifactURI = uri
		u.logger.Info("model artifact uploaded", "uri", uri)
	}

	return result, nil
}

// matrix extracts the feature matrix and integer labels. The target must
// already be mapped to {0, 1}; training runs on pipeline output.
func (u *trainingUsecase) matrix(ds *entity.Dataset) ([][]float64, []int, error) {
	required := append([]string{u.cfg.Data.TargetColumn}, u.cfg.Model.FeatureColumns...)
	if err := dataprep.RequireColumns(ds, required); err != nil {
		return nil, nil, err
	}

	cols := make([][]float64, len(u.cfg.Model.FeatureColumns))
	for i, name := range u.cfg.Model.FeatureColumns {
		col, err := ds.FloatColumn(name)
		if err != nil {
			return nil, nil, fmt.Errorf("feature column %q is not numeric: %w", name, err)
		}
		cols[i] = col
	}

	target, _ := ds.Column(u.cfg.Data.TargetColumn)
	y := make([]int, len(target))
	for i, v := range target {
		switch v {
		case "1":
			y[i] = 1
		case "0":
			y[i] = 0
		default:
			return nil, nil, domain.NewSchemaViolationError(
				fmt.Sprintf("row %d: target value %q is not in {0,1}", i, v))
		}
	}

	x := make([][]float64, ds.NumRows())
	for i := range x {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		x[i] = row
	}
	return x, y, nil
}
