// Package vertex adapts Vertex AI services to the domain ports.
package vertex

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/merongithub/ChurnPrediction/internal/config"
	"github.com/merongithub/ChurnPrediction/internal/domain"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// writeBatchSize bounds payloads per WriteFeatureValues request.
const writeBatchSize = 50

// FeatureRegistry talks to the Vertex AI Feature Store for one configured
// featurestore + entity type.
type FeatureRegistry struct {
	admin   *aiplatform.FeaturestoreClient
	serving *aiplatform.FeaturestoreOnlineServingClient
	cfg     *config.Config
	logger  *slog.Logger
}

// NewFeatureRegistry creates admin and online-serving clients against the
// regional Vertex endpoint.
func NewFeatureRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*FeatureRegistry, error) {
	endpoint := option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.GCP.Location))

	admin, err := aiplatform.NewFeaturestoreClient(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create featurestore client: %w", err)
	}
	serving, err := aiplatform.NewFeaturestoreOnlineServingClient(ctx, endpoint)
	if err != nil {
		_ = admin.Close()
		return nil, fmt.Errorf("failed to create featurestore serving client: %w", err)
	}

	return &FeatureRegistry{admin: admin, serving: serving, cfg: cfg, logger: logger}, nil
}

// EnsureFeaturestore creates the configured featurestore when it does not
// exist yet; an existing one is reused. Online serving is provisioned so
// feature values can be written immediately.
func (r *FeatureRegistry) EnsureFeaturestore(ctx context.Context) error {
	name := r.cfg.FeaturestorePath()

	_, err := r.admin.GetFeaturestore(ctx, &aiplatformpb.GetFeaturestoreRequest{Name: name})
	if err == nil {
		r.logger.Info("using existing featurestore", "featurestore", name)
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get featurestore: %w", err)
	}

	op, err := r.admin.CreateFeaturestore(ctx, &aiplatformpb.CreateFeaturestoreRequest{
		Parent:         fmt.Sprintf("projects/%s/locations/%s", r.cfg.GCP.ProjectID, r.cfg.GCP.Location),
		FeaturestoreId: r.cfg.FeatureStore.FeatureStoreID,
		Featurestore: &aiplatformpb.Featurestore{
			OnlineServingConfig: &aiplatformpb.Featurestore_OnlineServingConfig{
				FixedNodeCount: 1,
			},
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create featurestore: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("featurestore creation did not complete: %w", err)
	}

	r.logger.Info("created featurestore", "featurestore", name)
	return nil
}

// EnsureEntityType creates the configured entity type when it does not
// exist yet; an existing one is reused.
func (r *FeatureRegistry) EnsureEntityType(ctx context.Context) error {
	name := r.cfg.EntityTypePath()

	_, err := r.admin.GetEntityType(ctx, &aiplatformpb.GetEntityTypeRequest{Name: name})
	if err == nil {
		r.logger.Info("using existing entity type", "entity_type", name)
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get entity type: %w", err)
	}

	op, err := r.admin.CreateEntityType(ctx, &aiplatformpb.CreateEntityTypeRequest{
		Parent:       r.cfg.FeaturestorePath(),
		EntityTypeId: r.cfg.FeatureStore.EntityTypeID,
		EntityType: &aiplatformpb.EntityType{
			Description: "Customers tracked for churn prediction",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create entity type: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("entity type creation did not complete: %w", err)
	}

	r.logger.Info("created entity type", "entity_type", name)
	return nil
}

// EnsureFeatures creates any missing feature definitions under the entity
// type. Already-existing features are not an error.
func (r *FeatureRegistry) EnsureFeatures(ctx context.Context, features []domain.FeatureDefinition) error {
	parent := r.cfg.EntityTypePath()

	for _, f := range features {
		op, err := r.admin.CreateFeature(ctx, &aiplatformpb.CreateFeatureRequest{
			Parent:    parent,
			FeatureId: FeatureID(f.ID),
			Feature: &aiplatformpb.Feature{
				ValueType:   valueType(f.ValueType),
				Description: f.Description,
			},
		})
		if err != nil {
			if status.Code(err) == codes.AlreadyExists {
				r.logger.Debug("feature already exists", "feature", FeatureID(f.ID))
				continue
			}
			return fmt.Errorf("failed to create feature %q: %w", f.ID, err)
		}
		if _, err := op.Wait(ctx); err != nil {
			if status.Code(err) == codes.AlreadyExists {
				continue
			}
			return fmt.Errorf("feature %q creation did not complete: %w", f.ID, err)
		}
		r.logger.Info("created feature", "feature", FeatureID(f.ID))
	}
	return nil
}

// IngestBatch writes feature rows in bounded chunks. A failed chunk rejects
// all of its rows; the summary reports per-row acceptance either way, so
// partial ingestion is visible to the caller.
func (r *FeatureRegistry) IngestBatch(ctx context.Context, rows []entity.FeatureRow) (*entity.IngestSummary, error) {
	summary := &entity.IngestSummary{}
	entityType := r.cfg.EntityTypePath()

	for start := 0; start < len(rows); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		payloads := make([]*aiplatformpb.WriteFeatureValuesPayload, len(chunk))
		for i, row := range chunk {
			values := make(map[string]*aiplatformpb.FeatureValue, len(row.Features))
			for name, v := range row.Features {
				values[FeatureID(name)] = &aiplatformpb.FeatureValue{
					Value: &aiplatformpb.FeatureValue_DoubleValue{DoubleValue: v},
					Metadata: &aiplatformpb.FeatureValue_Metadata{
						GenerateTime: timestamppb.New(row.Timestamp),
					},
				}
			}
			payloads[i] = &aiplatformpb.WriteFeatureValuesPayload{
				EntityId:      row.EntityID,
				FeatureValues: values,
			}
		}

		_, err := r.serving.WriteFeatureValues(ctx, &aiplatformpb.WriteFeatureValuesRequest{
			EntityType: entityType,
			Payloads:   payloads,
		})
		if err != nil {
			summary.Rejected += len(chunk)
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("rows %d-%d: %v", start, end-1, err))
			r.logger.Warn("feature batch rejected", "from", start, "to", end-1, "error", err)
			continue
		}
		summary.Accepted += len(chunk)
	}

	r.logger.Info("feature ingestion finished",
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
	)
	return summary, nil
}

// Close releases both underlying clients.
func (r *FeatureRegistry) Close() error {
	servingErr := r.serving.Close()
	if err := r.admin.Close(); err != nil {
		return err
	}
	return servingErr
}

// FeatureID converts a dataset column name into a valid feature store ID:
// snake_case, lowercase letters, digits and underscores, starting with a
// letter ("MonthlyCharges" becomes "monthly_charges").
func FeatureID(column string) string {
	var b strings.Builder
	prevLowerOrDigit := false
	for _, r := range column {
		switch {
		case unicode.IsUpper(r):
			if prevLowerOrDigit {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLowerOrDigit = false
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevLowerOrDigit = true
		default:
			b.WriteRune('_')
			prevLowerOrDigit = false
		}
	}
	id := strings.Trim(b.String(), "_")
	if id == "" || !unicode.IsLetter(rune(id[0])) {
		id = "f_" + id
	}
	return id
}

func valueType(t string) aiplatformpb.Feature_ValueType {
	switch strings.ToUpper(t) {
	case "DOUBLE":
		return aiplatformpb.Feature_DOUBLE
	case "INT64":
		return aiplatformpb.Feature_INT64
	case "STRING":
		return aiplatformpb.Feature_STRING
	case "BOOL":
		return aiplatformpb.Feature_BOOL
	default:
		return aiplatformpb.Feature_DOUBLE
	}
}
