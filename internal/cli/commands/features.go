package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/merongithub/ChurnPrediction/internal/cli/ui"
	"github.com/merongithub/ChurnPrediction/internal/infrastructure/vertex"
	"github.com/merongithub/ChurnPrediction/internal/usecase"
)

// featuresCmd groups feature store subcommands
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Manage the Vertex AI Feature Store",
	Long:  `Manage the feature store resources backing the churn pipeline.`,
}

// featuresInitCmd is the features init subcommand
var featuresInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the entity type and feature definitions",
	Long: `Bootstrap the feature store for the churn pipeline.

Creates the configured entity type and one DOUBLE feature per configured
model feature column. The command is idempotent: resources that already
exist are reused, never recreated.`,
	Example: `  # Bootstrap the configured featurestore
  $ churnctl features init`,
	RunE: runFeaturesInit,
}

func init() {
	featuresCmd.AddCommand(featuresInitCmd)
	featuresInitCmd.SilenceUsage = true
}

func runFeaturesInit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := loadConfigAndLogger()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	log := slog.Default()

	registry, err := vertex.NewFeatureRegistry(ctx, cfg, log)
	if err != nil {
		ui.PrintError("failed to create feature registry: %v", err)
		return fmt.Errorf("feature registry creation failed")
	}
	defer registry.Close()

	setup := usecase.NewFeatureSetupUsecase(cfg, registry, log)

	ui.PrintInfo("setting up feature store %s", cfg.FeatureStore.FeatureStoreID)
	if err := setup.Setup(ctx); err != nil {
		ui.PrintError("feature store setup failed: %v", err)
		return fmt.Errorf("feature store setup failed")
	}

	ui.PrintSuccess("feature store ready: entity type %q with %d features",
		cfg.FeatureStore.EntityTypeID, len(cfg.Model.FeatureColumns))
	return nil
}
