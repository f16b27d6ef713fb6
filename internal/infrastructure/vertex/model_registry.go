package vertex

import (
	"context"
	"fmt"
	"log/slog"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"

	"github.com/merongithub/ChurnPrediction/internal/config"
	"github.com/merongithub/ChurnPrediction/internal/domain"
)

// ModelRegistry registers model artifacts with Vertex AI and deploys them to
// managed endpoints.
type ModelRegistry struct {
	models    *aiplatform.ModelClient
	endpoints *aiplatform.EndpointClient
	cfg       *config.Config
	logger    *slog.Logger
}

// NewModelRegistry creates model and endpoint clients against the regional
// Vertex endpoint.
func NewModelRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ModelRegistry, error) {
	endpoint := option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.GCP.Location))

	models, err := aiplatform.NewModelClient(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	endpoints, err := aiplatform.NewEndpointClient(ctx, endpoint)
	if err != nil {
		_ = models.Close()
		return nil, fmt.Errorf("failed to create endpoint client: %w", err)
	}

	return &ModelRegistry{models: models, endpoints: endpoints, cfg: cfg, logger: logger}, nil
}

func (r *ModelRegistry) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", r.cfg.GCP.ProjectID, r.cfg.GCP.Location)
}

// UploadModel registers the artifact for serving and returns the model
// resource name.
func (r *ModelRegistry) UploadModel(ctx context.Context, spec domain.ModelSpec) (string, error) {
	op, err := r.models.UploadModel(ctx, &aiplatformpb.UploadModelRequest{
		Parent: r.parent(),
		Model: &aiplatformpb.Model{
			DisplayName: spec.DisplayName,
			ArtifactUri: spec.ArtifactURI,
			ContainerSpec: &aiplatformpb.ModelContainerSpec{
				ImageUri: spec.ServingContainerImage,
			},
		},
	})
	if err != nil {
		return "", domain.NewUploadFailedError(spec.ArtifactURI, err)
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return "", domain.NewUploadFailedError(spec.ArtifactURI, err)
	}

	r.logger.Info("model uploaded", "model", resp.Model, "display_name", spec.DisplayName)
	return resp.Model, nil
}

// DeployModel creates an endpoint and deploys the model onto it with
// dedicated resources of the given machine type. Returns the endpoint
// resource name.
func (r *ModelRegistry) DeployModel(ctx context.Context, modelName, machineType string) (string, error) {
	createOp, err := r.endpoints.CreateEndpoint(ctx, &aiplatformpb.CreateEndpointRequest{
		Parent: r.parent(),
		Endpoint: &aiplatformpb.Endpoint{
			DisplayName: r.cfg.Model.DisplayName + "_endpoint",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create endpoint: %w", err)
	}
	endpoint, err := createOp.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("endpoint creation did not complete: %w", err)
	}

	deployOp, err := r.endpoints.DeployModel(ctx, &aiplatformpb.DeployModelRequest{
		Endpoint: endpoint.Name,
		DeployedModel: &aiplatformpb.DeployedModel{
			Model:       modelName,
			DisplayName: r.cfg.Model.DisplayName,
			PredictionResources: &aiplatformpb.DeployedModel_DedicatedResources{
				DedicatedResources: &aiplatformpb.DedicatedResources{
					MachineSpec: &aiplatformpb.MachineSpec{
						MachineType: machineType,
					},
					MinReplicaCount: 1,
				},
			},
		},
		TrafficSplit: map[string]int32{"0": 100},
	})
	if err != nil {
		return "", fmt.Errorf("failed to deploy model: %w", err)
	}
	if _, err := deployOp.Wait(ctx); err != nil {
		return "", fmt.Errorf("model deployment did not complete: %w", err)
	}

	r.logger.Info("model deployed", "endpoint", endpoint.Name, "machine_type", machineType)
	return endpoint.Name, nil
}

// Close releases both underlying clients.
func (r *ModelRegistry) Close() error {
	endpointErr := r.endpoints.Close()
	if err := r.models.Close(); err != nil {
		return err
	}
	return endpointErr
}
