package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/mocks"
)

func TestDeploy(t *testing.T) {
	cfg := testConfig()
	cfg.Model.ArtifactURI = "gs://test-bucket/models/churn_model.json"
	cfg.Model.MachineType = "n1-standard-4"
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var uploadedSpec domain.ModelSpec
	registry := &mocks.MockModelRegistry{
		UploadModelFunc: func(ctx context.Context, spec domain.ModelSpec) (string, error) {
			uploadedSpec = spec
			return "projects/test/locations/us-central1/models/42", nil
		},
	}

	result, err := NewDeploymentUsecase(cfg, registry, logger).Deploy(context.Background())
	if err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}

	if uploadedSpec.ArtifactURI != cfg.Model.ArtifactURI {
		t.Errorf("uploaded artifact = %q, want %q", uploadedSpec.ArtifactURI, cfg.Model.ArtifactURI)
	}
	if result.ModelName != "projects/test/locations/us-central1/models/42" {
		t.Errorf("ModelName = %q", result.ModelName)
	}
	if result.EndpointName == "" {
		t.Error("EndpointName is empty")
	}
	if result.MachineType != "n1-standard-4" {
		t.Errorf("MachineType = %q", result.MachineType)
	}
}

func TestDeployRequiresArtifactURI(t *testing.T) {
	cfg := testConfig()
	cfg.Model.ArtifactURI = ""
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	_, err := NewDeploymentUsecase(cfg, &mocks.MockModelRegistry{}, logger).Deploy(context.Background())
	if err == nil {
		t.Error("Deploy() error = nil without artifact_uri")
	}
}

func TestDeployUploadFailureStops(t *testing.T) {
	cfg := testConfig()
	cfg.Model.ArtifactURI = "gs://test-bucket/models/churn_model.json"
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	deployCalls := 0
	registry := &mocks.MockModelRegistry{
		UploadModelFunc: func(ctx context.Context, spec domain.ModelSpec) (string, error) {
			return "", errors.New("permission denied")
		},
		DeployModelFunc: func(ctx context.Context, modelName, machineType string) (string, error) {
			deployCalls++
			return "", nil
		},
	}

	_, err := NewDeploymentUsecase(cfg, registry, logger).Deploy(context.Background())
	if err == nil {
		t.Fatal("Deploy() error = nil, want error")
	}
	if deployCalls != 0 {
		t.Errorf("DeployModel called %d times after upload failure, want 0", deployCalls)
	}
}
