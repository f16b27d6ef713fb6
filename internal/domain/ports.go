package domain

import (
	"context"

	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// DatasetSource fetches the raw tabular dataset from one origin (remote URL
// or local file).
type DatasetSource interface {
	Fetch(ctx context.Context) (*entity.Dataset, error)
}

// ObjectStore uploads serialized bytes to blob storage and returns the
// fully-qualified location of the written object.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data []byte) (string, error)
}

// FeatureDefinition declares one feature in the registry.
type FeatureDefinition struct {
	ID          string
	ValueType   string
	Description string
}

// FeatureRegistry is the managed feature store for the configured entity
// type. IngestBatch may partially succeed; the summary is always non-nil and
// reports per-row acceptance regardless of the returned error.
type FeatureRegistry interface {
	EnsureFeaturestore(ctx context.Context) error
	EnsureEntityType(ctx context.Context) error
	EnsureFeatures(ctx context.Context, features []FeatureDefinition) error
	IngestBatch(ctx context.Context, rows []entity.FeatureRow) (*entity.IngestSummary, error)
}

// ModelSpec describes a model artifact to register for serving.
type ModelSpec struct {
	DisplayName           string
	ArtifactURI           string
	ServingContainerImage string
}

// ModelRegistry registers trained models and deploys them to managed
// serving endpoints.
type ModelRegistry interface {
	UploadModel(ctx context.Context, spec ModelSpec) (string, error)
	DeployModel(ctx context.Context, modelName, machineType string) (string, error)
}
