package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/merongithub/ChurnPrediction/internal/cli/ui"
	"github.com/merongithub/ChurnPrediction/internal/config"
	"github.com/merongithub/ChurnPrediction/pkg/logger"
)

const version = "0.1.0"

var cfgFile string

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "churnctl",
	Short:   "Churn prediction workflow CLI",
	Version: version,
	Long: `A command-line tool for running the customer churn prediction workflow:
dataset preparation, feature store setup, model training, and deployment
to a managed serving endpoint.`,
	Example: `  # Run the data preparation pipeline
  $ churnctl prepare

  # Bootstrap the feature store
  $ churnctl features init

  # Train the model on the cleaned dataset and upload the artifact
  $ churnctl train --upload

  # Deploy the registered model to an endpoint
  $ churnctl deploy

  # Interactive configuration setup
  $ churnctl config init`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (default configs/config.yaml)")

	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

// loadConfigAndLogger resolves configuration and installs the logger; every
// workflow command starts here.
func loadConfigAndLogger() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		log.Printf("failed to initialize logger: %v", err)
		return nil, err
	}
	return cfg, nil
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("churnctl version %s\n", version)
}
