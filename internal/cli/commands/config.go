package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/merongithub/ChurnPrediction/internal/cli/ui"
	"github.com/merongithub/ChurnPrediction/internal/config"
)

var configOutputPath string

// configCmd groups configuration subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage churnctl configuration",
	Long:  `Create and validate the configuration file used by all workflow commands.`,
}

// configInitCmd is the config init subcommand
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a configuration file",
	Long: `Create a configuration file by answering a few prompts.

Only the project-specific settings are asked for; everything else (dataset
URL, column roles, model defaults) is written with sensible defaults that
can be edited afterwards.`,
	Example: `  # Write configs/config.yaml interactively
  $ churnctl config init

  # Write to a different location
  $ churnctl config init -o /etc/churnctl/config.yaml`,
	RunE: runConfigInit,
}

// configValidateCmd is the config validate subcommand
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply environment overrides, and run the
same validation every workflow command runs at startup. Reports the first
problem found.`,
	Example: `  # Validate the default config
  $ churnctl config validate

  # Validate a specific file
  $ churnctl config validate -c configs/prod.yaml`,
	RunE: runConfigValidate,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configOutputPath, "output", "o", "configs/config.yaml", "where to write the config file")

	configInitCmd.SilenceUsage = true
	configValidateCmd.SilenceUsage = true
}

// configFile is the on-disk YAML layout written by config init. Only the
// settings the prompts cover appear here; the rest fall back to defaults.
type configFile struct {
	GCP struct {
		ProjectID string `yaml:"project_id"`
		Location  string `yaml:"location"`
	} `yaml:"gcp"`
	Storage struct {
		Bucket         string `yaml:"bucket"`
		UploadAttempts int    `yaml:"upload_attempts"`
	} `yaml:"storage"`
	FeatureStore struct {
		FeatureStoreID string `yaml:"featurestore_id"`
		EntityTypeID   string `yaml:"entity_type_id"`
	} `yaml:"feature_store"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	var answers struct {
		ProjectID      string
		Location       string
		Bucket         string
		FeatureStoreID string
		EntityTypeID   string
		LogLevel       string
	}

	questions := []*survey.Question{
		{
			Name:     "projectID",
			Prompt:   &survey.Input{Message: "GCP project ID:"},
			Validate: survey.Required,
		},
		{
			Name:   "location",
			Prompt: &survey.Input{Message: "GCP location:", Default: "us-central1"},
		},
		{
			Name:     "bucket",
			Prompt:   &survey.Input{Message: "Cloud Storage bucket:"},
			Validate: survey.Required,
		},
		{
			Name:   "featureStoreID",
			Prompt: &survey.Input{Message: "Feature store ID:", Default: "churn_featurestore"},
		},
		{
			Name:   "entityTypeID",
			Prompt: &survey.Input{Message: "Entity type ID:", Default: "customers"},
		},
		{
			Name: "logLevel",
			Prompt: &survey.Select{
				Message: "Log level:",
				Options: []string{"debug", "info", "warn", "error"},
				Default: "info",
			},
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		ui.PrintError("prompt aborted: %v", err)
		return fmt.Errorf("config init aborted")
	}

	var out configFile
	out.GCP.ProjectID = answers.ProjectID
	out.GCP.Location = answers.Location
	out.Storage.Bucket = answers.Bucket
	out.Storage.UploadAttempts = 1
	out.FeatureStore.FeatureStoreID = answers.FeatureStoreID
	out.FeatureStore.EntityTypeID = answers.EntityTypeID
	out.Log.Level = answers.LogLevel
	out.Log.Format = "text"

	data, err := yaml.Marshal(&out)
	if err != nil {
		ui.PrintError("failed to render config: %v", err)
		return fmt.Errorf("config init failed")
	}

	if _, err := os.Stat(configOutputPath); err == nil {
		overwrite := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s already exists. Overwrite?", configOutputPath),
		}
		if err := survey.AskOne(prompt, &overwrite); err != nil || !overwrite {
			ui.PrintWarning("keeping existing config")
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(configOutputPath), 0755); err != nil {
		ui.PrintError("failed to create config directory: %v", err)
		return fmt.Errorf("config init failed")
	}
	if err := os.WriteFile(configOutputPath, data, 0644); err != nil {
		ui.PrintError("failed to write config: %v", err)
		return fmt.Errorf("config init failed")
	}

	ui.PrintSuccess("config written to %s", configOutputPath)
	fmt.Println("\nRun 'churnctl config validate' to verify it.")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		ui.PrintError("config is invalid: %v", err)
		return fmt.Errorf("config validation failed")
	}

	ui.PrintSuccess("config is valid")
	ui.PrintInfo("project:       %s (%s)", cfg.GCP.ProjectID, cfg.GCP.Location)
	ui.PrintInfo("bucket:        %s", cfg.Storage.Bucket)
	ui.PrintInfo("feature store: %s / %s", cfg.FeatureStore.FeatureStoreID, cfg.FeatureStore.EntityTypeID)
	ui.PrintInfo("dataset:       %s", cfg.Data.SourceURL)
	return nil
}
