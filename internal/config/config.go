package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration, resolved once at process start
// and treated as read-only afterwards.
type Config struct {
	GCP          GCPConfig          `mapstructure:"gcp"`
	Storage      StorageConfig      `mapstructure:"storage"`
	FeatureStore FeatureStoreConfig `mapstructure:"feature_store"`
	Data         DataConfig         `mapstructure:"data"`
	Model        ModelConfig        `mapstructure:"model"`
	Log          LogConfig          `mapstructure:"log"`
}

// GCPConfig identifies the hosting project and region.
type GCPConfig struct {
	ProjectID string `mapstructure:"project_id"`
	Location  string `mapstructure:"location"`
}

// StorageConfig configures the blob storage destination.
type StorageConfig struct {
	Bucket         string `mapstructure:"bucket"`
	DataPrefix     string `mapstructure:"data_prefix"`
	ModelsPrefix   string `mapstructure:"models_prefix"`
	UploadAttempts int    `mapstructure:"upload_attempts"`
}

// FeatureStoreConfig configures the managed feature registry.
type FeatureStoreConfig struct {
	FeatureStoreID string `mapstructure:"featurestore_id"`
	EntityTypeID   string `mapstructure:"entity_type_id"`
}

// DataConfig configures the dataset source and column roles.
type DataConfig struct {
	SourceURL          string        `mapstructure:"source_url"`
	LocalPath          string        `mapstructure:"local_path"`
	CleanedPath        string        `mapstructure:"cleaned_path"`
	FetchTimeout       time.Duration `mapstructure:"fetch_timeout"`
	IDColumn           string        `mapstructure:"id_column"`
	TargetColumn       string        `mapstructure:"target_column"`
	NumericColumns     []string      `mapstructure:"numeric_columns"`
	CategoricalColumns []string      `mapstructure:"categorical_columns"`
	ChargesColumn      string        `mapstructure:"charges_column"`
}

// ModelConfig configures training and deployment.
type ModelConfig struct {
	DisplayName           string   `mapstructure:"display_name"`
	ModelFile             string   `mapstructure:"model_file"`
	Estimators            int      `mapstructure:"estimators"`
	Seed                  int64    `mapstructure:"seed"`
	FeatureColumns        []string `mapstructure:"feature_columns"`
	ArtifactURI           string   `mapstructure:"artifact_uri"`
	ServingContainerImage string   `mapstructure:"serving_container_image"`
	MachineType           string   `mapstructure:"machine_type"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// Load reads configuration from the given file (or the default search path)
// plus CHURN_-prefixed environment variables, and validates it.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CHURN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults mirrors the telco dataset layout so a minimal config file only
// has to name the GCP project and bucket.
func setDefaults(v *viper.Viper) {
	v.SetDefault("gcp.location", "us-central1")

	v.SetDefault("storage.data_prefix", "data/churn")
	v.SetDefault("storage.models_prefix", "models")
	v.SetDefault("storage.upload_attempts", 1)

	v.SetDefault("feature_store.featurestore_id", "churn_featurestore")
	v.SetDefault("feature_store.entity_type_id", "customers")

	v.SetDefault("data.source_url",
		"https://raw.githubusercontent.com/dphi-official/Datasets/master/Telco-Customer-Churn.csv")
	v.SetDefault("data.local_path", "data/raw_telco_data.csv")
	v.SetDefault("data.cleaned_path", "data/cleaned_telco_data.csv")
	v.SetDefault("data.fetch_timeout", "30s")
	v.SetDefault("data.id_column", "customerID")
	v.SetDefault("data.target_column", "Churn")
	v.SetDefault("data.charges_column", "TotalCharges")
	v.SetDefault("data.numeric_columns", []string{"tenure", "MonthlyCharges", "TotalCharges"})
	v.SetDefault("data.categorical_columns", []string{
		"gender", "Partner", "Dependents", "PhoneService", "MultipleLines",
		"InternetService", "OnlineSecurity", "OnlineBackup", "DeviceProtection",
		"TechSupport", "StreamingTV", "StreamingMovies", "Contract",
		"PaperlessBilling", "PaymentMethod",
	})

	v.SetDefault("model.display_name", "churn_model")
	v.SetDefault("model.model_file", "churn_model.json")
	v.SetDefault("model.estimators", 100)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.feature_columns", []string{"tenure", "MonthlyCharges"})
	v.SetDefault("model.serving_container_image",
		"us-docker.pkg.dev/vertex-ai/prediction/sklearn-cpu.0-24:latest")
	v.SetDefault("model.machine_type", "n1-standard-4")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
}

// Validate fails fast on missing or placeholder required settings.
func (c *Config) Validate() error {
	if c.GCP.ProjectID == "" || c.GCP.ProjectID == "your-gcp-project-id" {
		return fmt.Errorf("gcp.project_id is not set")
	}
	if c.GCP.Location == "" {
		return fmt.Errorf("gcp.location is required")
	}

	if c.Storage.Bucket == "" || c.Storage.Bucket == "your-bucket-name" {
		return fmt.Errorf("storage.bucket is not set")
	}
	if c.Storage.UploadAttempts < 1 {
		return fmt.Errorf("storage.upload_attempts must be at least 1, got %d", c.Storage.UploadAttempts)
	}

	if c.FeatureStore.FeatureStoreID == "" {
		return fmt.Errorf("feature_store.featurestore_id is required")
	}
	if c.FeatureStore.EntityTypeID == "" {
		return fmt.Errorf("feature_store.entity_type_id is required")
	}

	if c.Data.SourceURL == "" && c.Data.LocalPath == "" {
		return fmt.Errorf("either data.source_url or data.local_path is required")
	}
	if c.Data.IDColumn == "" {
		return fmt.Errorf("data.id_column is required")
	}
	if c.Data.TargetColumn == "" {
		return fmt.Errorf("data.target_column is required")
	}
	if c.Data.ChargesColumn == "" {
		return fmt.Errorf("data.charges_column is required")
	}

	if c.Model.DisplayName == "" {
		return fmt.Errorf("model.display_name is required")
	}
	if c.Model.Estimators <= 0 {
		return fmt.Errorf("model.estimators must be positive, got %d", c.Model.Estimators)
	}
	if len(c.Model.FeatureColumns) == 0 {
		return fmt.Errorf("model.feature_columns is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	return nil
}

// TrackedColumns returns every column the cleaning stage requires to be
// present and non-missing: identifier, target, numerics, categoricals.
func (c *Config) TrackedColumns() []string {
	out := make([]string, 0, 2+len(c.Data.NumericColumns)+len(c.Data.CategoricalColumns))
	out = append(out, c.Data.IDColumn, c.Data.TargetColumn)
	out = append(out, c.Data.NumericColumns...)
	out = append(out, c.Data.CategoricalColumns...)
	return out
}

// FeaturestorePath returns the fully-qualified feature store resource name.
func (c *Config) FeaturestorePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/featurestores/%s",
		c.GCP.ProjectID, c.GCP.Location, c.FeatureStore.FeatureStoreID)
}

// EntityTypePath returns the fully-qualified entity type resource name.
func (c *Config) EntityTypePath() string {
	return fmt.Sprintf("%s/entityTypes/%s", c.FeaturestorePath(), c.FeatureStore.EntityTypeID)
}
