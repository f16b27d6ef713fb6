package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/merongithub/ChurnPrediction/internal/cli/ui"
	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
	"github.com/merongithub/ChurnPrediction/internal/infrastructure/gcs"
	"github.com/merongithub/ChurnPrediction/internal/infrastructure/httpsource"
	"github.com/merongithub/ChurnPrediction/internal/infrastructure/vertex"
	"github.com/merongithub/ChurnPrediction/internal/usecase"
)

var prepareTimeout time.Duration

// prepareCmd is the prepare command
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Run the data preparation pipeline",
	Long: `Run the end-to-end data preparation pipeline.

The pipeline loads the raw telco dataset (remote URL with local fallback),
cleans it, engineers model features, validates the result, uploads the
cleaned CSV to Cloud Storage, and ingests feature values into the Vertex AI
Feature Store.

Stages run strictly in order and the pipeline stops at the first failure.
The exit code is non-zero when any stage fails.`,
	Example: `  # Run with the default config
  $ churnctl prepare

  # Run with an explicit config file
  $ churnctl prepare -c configs/prod.yaml`,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().DurationVar(&prepareTimeout, "timeout", 15*time.Minute, "overall pipeline timeout")

	// Silence usage to avoid showing help on every error
	prepareCmd.SilenceUsage = true
}

func runPrepare(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Printf("\nRun '%s --help' for usage.\n", cmd.CommandPath())
		return fmt.Errorf("invalid arguments")
	}

	ctx, cancel := context.WithTimeout(context.Background(), prepareTimeout)
	defer cancel()

	cfg, err := loadConfigAndLogger()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	log := slog.Default()

	var remote domain.DatasetSource
	if cfg.Data.SourceURL != "" {
		remote = httpsource.NewRemoteSource(cfg.Data.SourceURL, cfg.Data.FetchTimeout, cfg.Data.LocalPath, log)
	}
	var fallback domain.DatasetSource
	if cfg.Data.LocalPath != "" {
		fallback = httpsource.NewFileSource(cfg.Data.LocalPath, log)
	}

	store, err := gcs.NewObjectStore(ctx, cfg.Storage.Bucket, cfg.Storage.UploadAttempts, log)
	if err != nil {
		ui.PrintError("failed to create object store: %v", err)
		return fmt.Errorf("object store creation failed")
	}
	defer store.Close()

	registry, err := vertex.NewFeatureRegistry(ctx, cfg, log)
	if err != nil {
		ui.PrintError("failed to create feature registry: %v", err)
		return fmt.Errorf("feature registry creation failed")
	}
	defer registry.Close()

	pipeline := usecase.NewPreparationUsecase(cfg, remote, fallback, store, registry, log)

	ui.PrintInfo("starting data preparation pipeline")
	result := pipeline.Run(ctx)

	printPipelineResult(result)
	if !result.Success {
		return fmt.Errorf("pipeline failed")
	}
	return nil
}

// printPipelineResult renders the run outcome in a bordered summary box.
func printPipelineResult(result *entity.PipelineResult) {
	ui.PrintBold("\nPipeline Summary")

	var b strings.Builder

	fmt.Fprintf(&b, "Run ID:    %s\n", result.RunID)
	fmt.Fprintf(&b, "Duration:  %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	if result.DataShape.Rows > 0 {
		fmt.Fprintf(&b, "Shape:     %d rows x %d columns\n", result.DataShape.Rows, result.DataShape.Columns)
	}
	if result.Location != "" {
		fmt.Fprintf(&b, "Location:  %s\n", result.Location)
	}
	if result.Validation != nil {
		fmt.Fprintf(&b, "Issues:    %d\n", len(result.Validation.Issues))
		for _, issue := range result.Validation.Issues {
			fmt.Fprintf(&b, "  • %s\n", issue)
		}
	}
	if result.Ingest != nil {
		fmt.Fprintf(&b, "Ingested:  %d accepted, %d rejected\n", result.Ingest.Accepted, result.Ingest.Rejected)
	}

	if result.Success {
		fmt.Println(ui.Styles.SuccessBox.Render(strings.TrimRight(b.String(), "\n")))
		ui.PrintSuccess("data preparation pipeline completed")
		return
	}

	fmt.Fprintf(&b, "Error:     %v", result.Err)
	fmt.Println(ui.Styles.ErrorBox.Render(strings.TrimRight(b.String(), "\n")))
	ui.PrintError("data preparation pipeline failed: %v", result.Err)
}
