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

func TestSetup(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var defined []domain.FeatureDefinition
	registry := &mocks.MockFeatureRegistry{
		EnsureFeaturesFunc: func(ctx context.Context, features []domain.FeatureDefinition) error {
			defined = features
			return nil
		},
	}

	if err := NewFeatureSetupUsecase(cfg, registry, logger).Setup(context.Background()); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if registry.FeaturestoreCalls != 1 {
		t.Errorf("EnsureFeaturestore called %d times, want 1", registry.FeaturestoreCalls)
	}
	if registry.EntityTypeCalls != 1 {
		t.Errorf("EnsureEntityType called %d times, want 1", registry.EntityTypeCalls)
	}
	if len(defined) != len(cfg.Model.FeatureColumns) {
		t.Fatalf("defined %d features, want %d", len(defined), len(cfg.Model.FeatureColumns))
	}
	for i, def := range defined {
		if def.ID != cfg.Model.FeatureColumns[i] {
			t.Errorf("feature %d = %q, want %q", i, def.ID, cfg.Model.FeatureColumns[i])
		}
		if def.ValueType != "DOUBLE" {
			t.Errorf("feature %q value type = %q, want DOUBLE", def.ID, def.ValueType)
		}
	}
}

func TestSetupFeaturestoreFailureStops(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	registry := &mocks.MockFeatureRegistry{
		EnsureFeaturestoreFunc: func(ctx context.Context) error {
			return errors.New("permission denied")
		},
	}

	if err := NewFeatureSetupUsecase(cfg, registry, logger).Setup(context.Background()); err == nil {
		t.Fatal("Setup() error = nil, want error")
	}
	if registry.EntityTypeCalls != 0 {
		t.Errorf("EnsureEntityType called %d times after featurestore failure, want 0", registry.EntityTypeCalls)
	}
}

func TestSetupEntityTypeFailureStops(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ensureFeaturesCalls := 0
	registry := &mocks.MockFeatureRegistry{
		EnsureEntityTypeFunc: func(ctx context.Context) error {
			return errors.New("featurestore not found")
		},
		EnsureFeaturesFunc: func(ctx context.Context, features []domain.FeatureDefinition) error {
			ensureFeaturesCalls++
			return nil
		},
	}

	if err := NewFeatureSetupUsecase(cfg, registry, logger).Setup(context.Background()); err == nil {
		t.Fatal("Setup() error = nil, want error")
	}
	if ensureFeaturesCalls != 0 {
		t.Errorf("EnsureFeatures called %d times after entity type failure, want 0", ensureFeaturesCalls)
	}
}
