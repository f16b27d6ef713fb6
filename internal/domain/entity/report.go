package entity

import "time"

// ValidationReport is an immutable data-quality snapshot of a dataset taken
// after feature engineering. Issues are advisory; they never fail a run.
type ValidationReport struct {
	TotalRows           int
	TotalColumns        int
	MissingValues       int
	DuplicateRows       int
	TargetDistribution  map[int]int
	ZeroVarianceColumns []string
	Issues              []string
	GeneratedAt         time.Time
}

// HasIssues reports whether any quality issue was detected.
func (r *ValidationReport) HasIssues() bool {
	return len(r.Issues) > 0
}

// DataShape is the (rows, columns) shape of a dataset.
type DataShape struct {
	Rows    int
	Columns int
}

// FeatureRow is one entity's feature values at a point in time, addressed to
// the feature registry by the entity key.
type FeatureRow struct {
	EntityID  string
	Features  map[string]float64
	Timestamp time.Time
}

// IngestSummary reports the outcome of a feature-registry batch write.
// Partial rejection is possible and must be surfaced to the caller.
type IngestSummary struct {
	Accepted int
	Rejected int
	Errors   []string
}

// Partial reports whether some rows were rejected while others succeeded.
func (s *IngestSummary) Partial() bool {
	return s.Rejected > 0 && s.Accepted > 0
}

// PipelineResult is the structured outcome of one preparation run. Run never
// lets a stage failure escape; it is recorded here instead.
type PipelineResult struct {
	Success    bool
	RunID      string
	DataShape  DataShape
	Location   string
	Validation *ValidationReport
	Ingest     *IngestSummary
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// TrainingResult describes a completed model training.
type TrainingResult struct {
	ModelFile    string
	ArtifactURI  string
	Accuracy     float64
	SampleCount  int
	FeatureCount int
	TrainedAt    time.Time
}

// DeploymentResult describes a model pushed to a serving endpoint.
type DeploymentResult struct {
	ModelName    string
	EndpointName string
	MachineType  string
	DeployedAt   time.Time
}
