package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/merongithub/ChurnPrediction/internal/cli/ui"
	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/infrastructure/gcs"
	"github.com/merongithub/ChurnPrediction/internal/usecase"
)

var (
	trainDataPath string
	trainUpload   bool
)

// trainCmd is the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the churn random forest",
	Long: `Train the churn prediction random forest on a cleaned dataset.

The dataset must be pipeline output: the target already mapped to {0, 1}
and every feature column numeric. The trained model is saved as a JSON
artifact; with --upload the artifact is also written to Cloud Storage so it
can be registered for serving.`,
	Example: `  # Train on the configured cleaned dataset
  $ churnctl train

  # Train on a specific file and upload the artifact
  $ churnctl train --data data/cleaned_telco_data.csv --upload`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&trainDataPath, "data", "", "training dataset path (default: configured cleaned path)")
	trainCmd.Flags().BoolVar(&trainUpload, "upload", false, "upload the model artifact to Cloud Storage")

	trainCmd.SilenceUsage = true
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg, err := loadConfigAndLogger()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	log := slog.Default()

	var store domain.ObjectStore
	if trainUpload {
		objectStore, err := gcs.NewObjectStore(ctx, cfg.Storage.Bucket, cfg.Storage.UploadAttempts, log)
		if err != nil {
			ui.PrintError("failed to create object store: %v", err)
			return fmt.Errorf("object store creation failed")
		}
		defer objectStore.Close()
		store = objectStore
	}

	trainer := usecase.NewTrainingUsecase(cfg, store, log)

	ui.PrintInfo("training with %d estimators", cfg.Model.Estimators)
	result, err := trainer.Train(ctx, trainDataPath, trainUpload)
	if err != nil {
		ui.PrintError("training failed: %v", err)
		return fmt.Errorf("training failed")
	}

	ui.PrintSuccess("model trained: %s", result.ModelFile)
	ui.PrintInfo("samples: %d, features: %d, train accuracy: %.4f",
		result.SampleCount, result.FeatureCount, result.Accuracy)
	if result.ArtifactURI != "" {
		ui.PrintSuccess("artifact uploaded: %s", result.ArtifactURI)
		fmt.Println("\nSet model.artifact_uri in your config to deploy this artifact.")
	}
	return nil
}
