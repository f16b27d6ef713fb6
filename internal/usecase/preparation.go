package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/merongithub/ChurnPrediction/internal/config"
	"github.com/merongithub/ChurnPrediction/internal/dataprep"
	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
	"github.com/merongithub/ChurnPrediction/pkg/logger"
)

// PreparationUsecase is the data preparation pipeline: load, clean, engineer
// features, validate, upload to blob storage, ingest into the feature
// registry. Stages are strictly sequential; Run short-circuits on the first
// failure and never lets an error escape its boundary.
type PreparationUsecase interface {
	Load(ctx context.Context) (*entity.Dataset, error)
	Clean(ctx context.Context, ds *entity.Dataset) (*entity.Dataset, error)
	EngineerFeatures(ctx context.Context, ds *entity.Dataset) (*entity.Dataset, error)
	Validate(ds *entity.Dataset) *entity.ValidationReport
	Upload(ctx context.Context, ds *entity.Dataset) (string, error)
	Ingest(ctx context.Context, ds *entity.Dataset) (*entity.IngestSummary, error)
	Run(ctx context.Context) *entity.PipelineResult
}

type preparationUsecase struct {
	cfg      *config.Config
	remote   domain.DatasetSource
	fallback domain.DatasetSource
	store    domain.ObjectStore
	registry domain.FeatureRegistry
	logger   *slog.Logger
}

// NewPreparationUsecase creates the pipeline over its external
// collaborators. remote may be nil when only a local source is configured.
func NewPreparationUsecase(
	cfg *config.Config,
	remote domain.DatasetSource,
	fallback domain.DatasetSource,
	store domain.ObjectStore,
	registry domain.FeatureRegistry,
	logger *slog.Logger,
) PreparationUsecase {
	return &preparationUsecase{
		cfg:      cfg,
		remote:   remote,
		fallback: fallback,
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// targetMapping maps the raw label to {1, 0}. The mapped values are included
// so Clean stays idempotent on already-cleaned data.
var targetMapping = map[string]string{
	"Yes": "1",
	"No":  "0",
	"1":   "1",
	"0":   "0",
}

// Load fetches the dataset from the remote URL, falling back to the local
// file when the fetch fails for any reason.
func (u *preparationUsecase) Load(ctx context.Context) (*entity.Dataset, error) {
	var remoteErr error
	if u.remote != nil {
		ds, err := u.remote.Fetch(ctx)
		if err == nil {
			return ds, nil
		}
		remoteErr = err
		u.logger.Warn("remote dataset fetch failed, trying local fallback", "error", err)
	} else {
		remoteErr = fmt.Errorf("no remote source configured")
	}

	if u.fallback == nil {
		return nil, domain.NewDataUnavailableError(remoteErr, fmt.Errorf("no local source configured"))
	}
	ds, localErr := u.fallback.Fetch(ctx)
	if localErr != nil {
		return nil, domain.NewDataUnavailableError(remoteErr, localErr)
	}
	return ds, nil
}

// Clean removes duplicates, drops rows missing tracked fields, coerces the
// charges column to numeric (dropping unparsable rows), and maps the target
// to {1, 0}. Order matters and matches the documented stage contract.
func (u *preparationUsecase) Clean(ctx context.Context, ds *entity.Dataset) (*entity.Dataset, error) {
	tracked := u.cfg.TrackedColumns()
	if err := dataprep.RequireColumns(ds, tracked); err != nil {
		return nil, err
	}

	deduped, removedDup := dataprep.DropDuplicates(ds)
	u.logger.Info("removed duplicate rows", "count", removedDup)

	dense, removedMissing, err := dataprep.DropMissing(deduped, tracked)
	if err != nil {
		return nil, err
	}
	u.logger.Info("removed rows with missing values", "count", removedMissing)

	coerced, removedBadCharges, err := dataprep.CoerceNumeric(dense, u.cfg.Data.ChargesColumn)
	if err != nil {
		return nil, err
	}
	if removedBadCharges > 0 {
		u.logger.Info("removed rows with non-numeric charges",
			"column", u.cfg.Data.ChargesColumn, "count", removedBadCharges)
	}

	mapped, err := dataprep.MapTarget(coerced, u.cfg.Data.TargetColumn, targetMapping)
	if err != nil {
		return nil, err
	}

	u.logger.Info("data cleaning completed", "rows", mapped.NumRows())
	return mapped, nil
}

// EngineerFeatures adds the charge ratio features and one-hot encodes every
// categorical column, producing a fully numeric dataset (plus identifier).
func (u *preparationUsecase) EngineerFeatures(ctx context.Context, ds *entity.Dataset) (*entity.Dataset, error) {
	withRatios, err := dataprep.AddRatioFeatures(ds, "tenure", "MonthlyCharges", u.cfg.Data.ChargesColumn)
	if err != nil {
		return nil, err
	}

	encoded, err := dataprep.OneHotEncode(withRatios, u.cfg.Data.CategoricalColumns, u.cfg.Data.IDColumn)
	if err != nil {
		return nil, err
	}

	u.logger.Info("feature engineering completed",
		"columns_before", ds.NumColumns(),
		"columns_after", encoded.NumColumns(),
	)
	return encoded, nil
}

// Validate computes the data-quality report. Pure; issues are advisory.
func (u *preparationUsecase) Validate(ds *entity.Dataset) *entity.ValidationReport {
	report := dataprep.Validate(ds, u.cfg.Data.TargetColumn)
	u.logger.Info("data validation completed",
		"rows", report.TotalRows,
		"columns", report.TotalColumns,
		"issues", len(report.Issues),
	)
	return report
}

// Upload serializes the dataset to CSV and writes it under a timestamped
// object path, returning the fully-qualified location. A copy is kept at the
// configured local cleaned path when one is set.
func (u *preparationUsecase) Upload(ctx context.Context, ds *entity.Dataset) (string, error) {
	data, err := dataprep.WriteCSV(ds)
	if err != nil {
		return "", domain.NewUploadFailedError("serialize dataset", err)
	}

	if u.cfg.Data.CleanedPath != "" {
		if err := writeLocalCopy(u.cfg.Data.CleanedPath, data); err != nil {
			u.logger.Warn("failed to write local cleaned copy", "path", u.cfg.Data.CleanedPath, "error", err)
		}
	}

	objectPath := fmt.Sprintf("%s/cleaned_telco_data_%s.csv",
		strings.TrimSuffix(u.cfg.Storage.DataPrefix, "/"),
		time.Now().UTC().Format("20060102_150405"))

	uri, err := u.store.Upload(ctx, objectPath, data)
	if err != nil {
		if domain.IsUploadFailed(err) {
			return "", err
		}
		return "", domain.NewUploadFailedError(objectPath, err)
	}
	return uri, nil
}

// Ingest sends one feature row per record to the registry, keyed by the
// identifier column and stamped with a single batch timestamp. Partial
// rejection is an IngestFailed error carrying the summary.
func (u *preparationUsecase) Ingest(ctx context.Context, ds *entity.Dataset) (*entity.IngestSummary, error) {
	if err := u.registry.EnsureFeaturestore(ctx); err != nil {
		return nil, domain.NewIngestFailedError("failed to prepare featurestore", err)
	}
	if err := u.registry.EnsureEntityType(ctx); err != nil {
		return nil, domain.NewIngestFailedError("failed to prepare entity type", err)
	}

	rows, err := u.featureRows(ds)
	if err != nil {
		return nil, err
	}

	summary, err := u.registry.IngestBatch(ctx, rows)
	if err != nil {
		return summary, domain.NewIngestFailedError("feature registry write failed", err)
	}
	if summary == nil {
		return nil, domain.NewIngestFailedError("feature registry returned no summary", nil)
	}
	if summary.Rejected > 0 {
		return summary, domain.NewIngestFailedError(
			fmt.Sprintf("%d of %d rows rejected", summary.Rejected, len(rows)), nil)
	}
	return summary, nil
}

// featureRows converts the dataset to registry rows: every column except the
// identifier and the target, parsed as float64.
func (u *preparationUsecase) featureRows(ds *entity.Dataset) ([]entity.FeatureRow, error) {
	idIdx := ds.ColumnIndex(u.cfg.Data.IDColumn)
	if idIdx < 0 {
		return nil, domain.NewSchemaViolationError(
			fmt.Sprintf("identifier column %q absent", u.cfg.Data.IDColumn))
	}

	featureIdx := make(map[int]string, ds.NumColumns())
	for i, c := range ds.Columns {
		if c == u.cfg.Data.IDColumn || c == u.cfg.Data.TargetColumn {
			continue
		}
		featureIdx[i] = c
	}

	now := time.Now().UTC()
	rows := make([]entity.FeatureRow, 0, ds.NumRows())
	for i, row := range ds.Rows {
		features := make(map[string]float64, len(featureIdx))
		for idx, name := range featureIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
			if err != nil {
				return nil, domain.NewSchemaViolationError(
					fmt.Sprintf("row %d: non-numeric feature %s value %q", i, name, row[idx]))
			}
			features[name] = v
		}
		rows = append(rows, entity.FeatureRow{
			EntityID:  row[idIdx],
			Features:  features,
			Timestamp: now,
		})
	}
	return rows, nil
}

// Run orchestrates the full pipeline. Every stage failure is captured in the
// result record; callers always get a structured outcome.
func (u *preparationUsecase) Run(ctx context.Context) *entity.PipelineResult {
	result := &entity.PipelineResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	defer func() { result.FinishedAt = time.Now().UTC() }()

	log := logger.WithRunID(u.logger, result.RunID)
	log.Info("starting data preparation pipeline")

	fail := func(err error) *entity.PipelineResult {
		result.Err = err
		log.Error("pipeline failed", "error", err)
		return result
	}

	raw, err := u.Load(ctx)
	if err != nil {
		return fail(err)
	}

	cleaned, err := u.Clean(ctx, raw)
	if err != nil {
		return fail(err)
	}

	engineered, err := u.EngineerFeatures(ctx, cleaned)
	if err != nil {
		return fail(err)
	}
	rows, cols := engineered.Shape()
	result.DataShape = entity.DataShape{Rows: rows, Columns: cols}

	result.Validation = u.Validate(engineered)

	location, err := u.Upload(ctx, engineered)
	if err != nil {
		return fail(err)
	}
	result.Location = location

	summary, err := u.Ingest(ctx, engineered)
	result.Ingest = summary
	if err != nil {
		return fail(err)
	}

	result.Success = true
	log.Info("data preparation pipeline completed",
		"rows", rows,
		"columns", cols,
		"location", location,
	)
	return result
}

func writeLocalCopy(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
