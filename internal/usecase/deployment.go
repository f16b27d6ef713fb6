package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/merongithub/ChurnPrediction/internal/config"
	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// DeploymentUsecase registers the trained model artifact with the serving
// platform and deploys it to a managed endpoint.
type DeploymentUsecase interface {
	Deploy(ctx context.Context) (*entity.DeploymentResult, error)
}

type deploymentUsecase struct {
	cfg      *config.Config
	registry domain.ModelRegistry
	logger   *slog.Logger
}

// NewDeploymentUsecase creates a deployment usecase.
func NewDeploymentUsecase(cfg *config.Config, registry domain.ModelRegistry, logger *slog.Logger) DeploymentUsecase {
	return &deploymentUsecase{cfg: cfg, registry: registry, logger: logger}
}

// Deploy uploads the model and deploys it to a new endpoint with the
// configured machine type.
func (u *deploymentUsecase) Deploy(ctx context.Context) (*entity.DeploymentResult, error) {
	if u.cfg.Model.ArtifactURI == "" {
		return nil, fmt.Errorf("model.artifact_uri is required for deployment")
	}

	spec := domain.ModelSpec{
		DisplayName:           u.cfg.Model.DisplayName,
		ArtifactURI:           u.cfg.Model.ArtifactURI,
		ServingContainerImage: u.cfg.Model.ServingContainerImage,
	}

	modelName, err := u.registry.UploadModel(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to upload model: %w", err)
	}
	u.logger.Info("model registered", "model", modelName)

	endpointName, err := u.registry.DeployModel(ctx, modelName, u.cfg.Model.MachineType)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy model: %w", err)
	}

	u.logger.Info("model deployed to endpoint", "endpoint", endpointName)
	return &entity.DeploymentResult{
		ModelName:    modelName,
		EndpointName: endpointName,
		MachineType:  u.cfg.Model.MachineType,
		DeployedAt:   time.Now().UTC(),
	}, nil
}
