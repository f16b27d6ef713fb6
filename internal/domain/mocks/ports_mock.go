package mocks

import (
	"context"

	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// MockDatasetSource is a mock implementation of domain.DatasetSource
type MockDatasetSource struct {
	FetchFunc func(ctx context.Context) (*entity.Dataset, error)
}

// Fetch mocks the Fetch method
func (m *MockDatasetSource) Fetch(ctx context.Context) (*entity.Dataset, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return entity.NewDataset(nil, nil), nil
}

// MockObjectStore is a mock implementation of domain.ObjectStore
type MockObjectStore struct {
	UploadFunc func(ctx context.Context, objectPath string, data []byte) (string, error)

	// Uploaded records every call for assertions
	Uploaded []string
}

// Upload mocks the Upload method
func (m *MockObjectStore) Upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	m.Uploaded = append(m.Uploaded, objectPath)
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, objectPath, data)
	}
	return "gs://test-bucket/" + objectPath, nil
}

// MockFeatureRegistry is a mock implementation of domain.FeatureRegistry
type MockFeatureRegistry struct {
	EnsureFeaturestoreFunc func(ctx context.Context) error
	EnsureEntityTypeFunc   func(ctx context.Context) error
	EnsureFeaturesFunc     func(ctx context.Context, features []domain.FeatureDefinition) error
	IngestBatchFunc        func(ctx context.Context, rows []entity.FeatureRow) (*entity.IngestSummary, error)

	// Call counters for ordering and short-circuit assertions
	FeaturestoreCalls int
	EntityTypeCalls   int
	IngestCalls       int
}

// EnsureFeaturestore mocks the EnsureFeaturestore method
func (m *MockFeatureRegistry) EnsureFeaturestore(ctx context.Context) error {
	m.FeaturestoreCalls++
	if m.EnsureFeaturestoreFunc != nil {
		return m.EnsureFeaturestoreFunc(ctx)
	}
	return nil
}

// EnsureEntityType mocks the EnsureEntityType method
func (m *MockFeatureRegistry) EnsureEntityType(ctx context.Context) error {
	m.EntityTypeCalls++
	if m.EnsureEntityTypeFunc != nil {
		return m.EnsureEntityTypeFunc(ctx)
	}
	return nil
}

// EnsureFeatures mocks the EnsureFeatures method
func (m *MockFeatureRegistry) EnsureFeatures(ctx context.Context, features []domain.FeatureDefinition) error {
	if m.EnsureFeaturesFunc != nil {
		return m.EnsureFeaturesFunc(ctx, features)
	}
	return nil
}

// IngestBatch mocks the IngestBatch method
func (m *MockFeatureRegistry) IngestBatch(ctx context.Context, rows []entity.FeatureRow) (*entity.IngestSummary, error) {
	m.IngestCalls++
	if m.IngestBatchFunc != nil {
		return m.IngestBatchFunc(ctx, rows)
	}
	return &entity.IngestSummary{Accepted: len(rows)}, nil
}

// MockModelRegistry is a mock implementation of domain.ModelRegistry
type MockModelRegistry struct {
	UploadModelFunc func(ctx context.Context, spec domain.ModelSpec) (string, error)
	DeployModelFunc func(ctx context.Context, modelName, machineType string) (string, error)
}

// UploadModel mocks the UploadModel method
func (m *MockModelRegistry) UploadModel(ctx context.Context, spec domain.ModelSpec) (string, error) {
	if m.UploadModelFunc != nil {
		return m.UploadModelFunc(ctx, spec)
	}
	return "projects/test/locations/us-central1/models/1", nil
}

// DeployModel mocks the DeployModel method
func (m *MockModelRegistry) DeployModel(ctx context.Context, modelName, machineType string) (string, error) {
	if m.DeployModelFunc != nil {
		return m.DeployModelFunc(ctx, modelName, machineType)
	}
	return "projects/test/locations/us-central1/endpoints/1", nil
}
