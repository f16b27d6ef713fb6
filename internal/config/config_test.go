package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const minimalConfig = `
gcp:
  project_id: test-project
storage:
  bucket: test-bucket
`

func TestLoadMinimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Everything but project and bucket comes from defaults.
	if cfg.GCP.Location != "us-central1" {
		t.Errorf("location = %q, want us-central1", cfg.GCP.Location)
	}
	if cfg.Storage.UploadAttempts != 1 {
		t.Errorf("upload_attempts = %d, want 1", cfg.Storage.UploadAttempts)
	}
	if cfg.Data.TargetColumn != "Churn" {
		t.Errorf("target_column = %q, want Churn", cfg.Data.TargetColumn)
	}
	if cfg.Data.FetchTimeout != 30*time.Second {
		t.Errorf("fetch_timeout = %v, want 30s", cfg.Data.FetchTimeout)
	}
	if len(cfg.Data.CategoricalColumns) != 15 {
		t.Errorf("categorical columns = %d, want 15", len(cfg.Data.CategoricalColumns))
	}
	if cfg.Model.Estimators != 100 || cfg.Model.Seed != 42 {
		t.Errorf("model defaults = (%d, %d), want (100, 42)", cfg.Model.Estimators, cfg.Model.Seed)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
gcp:
  project_id: test-project
  location: europe-west4
storage:
  bucket: test-bucket
  upload_attempts: 3
model:
  estimators: 10
log:
  level: debug
  format: json
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GCP.Location != "europe-west4" {
		t.Errorf("location = %q", cfg.GCP.Location)
	}
	if cfg.Storage.UploadAttempts != 3 {
		t.Errorf("upload_attempts = %d, want 3", cfg.Storage.UploadAttempts)
	}
	if cfg.Model.Estimators != 10 {
		t.Errorf("estimators = %d, want 10", cfg.Model.Estimators)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() error = nil for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{
			name:        "missing project",
			mutate:      func(c *Config) { c.GCP.ProjectID = "" },
			errContains: "gcp.project_id",
		},
		{
			name:        "placeholder project",
			mutate:      func(c *Config) { c.GCP.ProjectID = "your-gcp-project-id" },
			errContains: "gcp.project_id",
		},
		{
			name:        "missing bucket",
			mutate:      func(c *Config) { c.Storage.Bucket = "" },
			errContains: "storage.bucket",
		},
		{
			name:        "zero upload attempts",
			mutate:      func(c *Config) { c.Storage.UploadAttempts = 0 },
			errContains: "upload_attempts",
		},
		{
			name: "no data source at all",
			mutate: func(c *Config) {
				c.Data.SourceURL = ""
				c.Data.LocalPath = ""
			},
			errContains: "data.source_url",
		},
		{
			name:        "no feature columns",
			mutate:      func(c *Config) { c.Model.FeatureColumns = nil },
			errContains: "feature_columns",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.Log.Level = "verbose" },
			errContains: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, minimalConfig))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %v, want mention of %q", err, tt.errContains)
			}
		})
	}
}

func TestResourcePaths(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := "projects/test-project/locations/us-central1/featurestores/churn_featurestore"
	if got := cfg.FeaturestorePath(); got != want {
		t.Errorf("FeaturestorePath() = %q, want %q", got, want)
	}
	if got := cfg.EntityTypePath(); got != want+"/entityTypes/customers" {
		t.Errorf("EntityTypePath() = %q", got)
	}
}

func TestTrackedColumns(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tracked := cfg.TrackedColumns()
	if tracked[0] != "customerID" || tracked[1] != "Churn" {
		t.Errorf("tracked = %v, want identifier and target first", tracked[:2])
	}
	want := 2 + len(cfg.Data.NumericColumns) + len(cfg.Data.CategoricalColumns)
	if len(tracked) != want {
		t.Errorf("len(tracked) = %d, want %d", len(tracked), want)
	}
}
