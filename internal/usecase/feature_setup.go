package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/merongithub/ChurnPrediction/internal/config"
	"github.com/merongithub/ChurnPrediction/internal/domain"
)

// FeatureSetupUsecase bootstraps the feature registry: featurestore, entity
// type, and the configured feature definitions. Idempotent; existing
// resources are reused.
type FeatureSetupUsecase interface {
	Setup(ctx context.Context) error
}

type featureSetupUsecase struct {
	cfg      *config.Config
	registry domain.FeatureRegistry
	logger   *slog.Logger
}

// NewFeatureSetupUsecase creates a feature setup usecase.
func NewFeatureSetupUsecase(cfg *config.Config, registry domain.FeatureRegistry, logger *slog.Logger) FeatureSetupUsecase {
	return &featureSetupUsecase{cfg: cfg, registry: registry, logger: logger}
}

// featureDescriptions documents the well-known model features.
var featureDescriptions = map[string]string{
	"tenure":         "Customer tenure in months",
	"MonthlyCharges": "Current monthly charge",
}

// Setup ensures the featurestore, the entity type, and one DOUBLE feature
// per configured model feature column.
func (u *featureSetupUsecase) Setup(ctx context.Context) error {
	if err := u.registry.EnsureFeaturestore(ctx); err != nil {
		return fmt.Errorf("failed to ensure featurestore: %w", err)
	}
	if err := u.registry.EnsureEntityType(ctx); err != nil {
		return fmt.Errorf("failed to ensure entity type: %w", err)
	}

	defs := make([]domain.FeatureDefinition, 0, len(u.cfg.Model.FeatureColumns))
	for _, c := range u.cfg.Model.FeatureColumns {
		defs = append(defs, domain.FeatureDefinition{
			ID:          c,
			ValueType:   "DOUBLE",
			Description: featureDescriptions[c],
		})
	}
	if err := u.registry.EnsureFeatures(ctx, defs); err != nil {
		return fmt.Errorf("failed to ensure features: %w", err)
	}

	u.logger.Info("feature store setup completed",
		"entity_type", u.cfg.FeatureStore.EntityTypeID,
		"features", len(defs),
	)
	return nil
}
