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

// deployCmd is the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the trained model to a serving endpoint",
	Long: `Register the trained model artifact with Vertex AI and deploy it to a
managed prediction endpoint.

Requires model.artifact_uri to point at an uploaded model artifact
(see 'churnctl train --upload'). Endpoint creation and deployment are
long-running operations; this command waits for both to complete.`,
	Example: `  # Deploy the configured artifact
  $ churnctl deploy`,
	RunE: runDeploy,
}

func init() {
	deployCmd.SilenceUsage = true
}

func runDeploy(cmd *cobra.Command, args []string) error {
	// Endpoint creation plus deployment routinely takes tens of minutes.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Minute)
	defer cancel()

	cfg, err := loadConfigAndLogger()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	log := slog.Default()

	registry, err := vertex.NewModelRegistry(ctx, cfg, log)
	if err != nil {
		ui.PrintError("failed to create model registry: %v", err)
		return fmt.Errorf("model registry creation failed")
	}
	defer registry.Close()

	deployer := usecase.NewDeploymentUsecase(cfg, registry, log)

	ui.PrintInfo("deploying %s on %s", cfg.Model.DisplayName, cfg.Model.MachineType)
	result, err := deployer.Deploy(ctx)
	if err != nil {
		ui.PrintError("deployment failed: %v", err)
		return fmt.Errorf("deployment failed")
	}

	ui.PrintSuccess("model deployed")
	ui.PrintInfo("model:    %s", result.ModelName)
	ui.PrintInfo("endpoint: %s", result.EndpointName)
	return nil
}
