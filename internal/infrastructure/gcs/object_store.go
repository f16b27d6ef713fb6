// Package gcs adapts Google Cloud Storage to the domain ObjectStore port.
package gcs

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"

	"github.com/merongithub/ChurnPrediction/internal/domain"
)

// ObjectStore uploads objects to a fixed bucket with a bounded number of
// attempts per object.
type ObjectStore struct {
	client   *storage.Client
	bucket   string
	attempts int
	logger   *slog.Logger
}

// NewObjectStore creates a Cloud Storage backed object store. Credentials
// are resolved through Application Default Credentials.
func NewObjectStore(ctx context.Context, bucket string, attempts int, logger *slog.Logger) (*ObjectStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if attempts < 1 {
		attempts = 1
	}
	return &ObjectStore{
		client:   client,
		bucket:   bucket,
		attempts: attempts,
		logger:   logger,
	}, nil
}

// Upload writes data under objectPath and returns the gs:// URI. Attempts
// are bounded by configuration; there is no backoff beyond what the SDK does
// internally.
func (s *ObjectStore) Upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err := s.writeObject(ctx, objectPath, data); err != nil {
			lastErr = err
			s.logger.Warn("object upload attempt failed",
				"bucket", s.bucket,
				"object", objectPath,
				"attempt", attempt,
				"error", err,
			)
			continue
		}

		uri := fmt.Sprintf("gs://%s/%s", s.bucket, objectPath)
		s.logger.Info("object uploaded", "uri", uri, "bytes", len(data), "attempt", attempt)
		return uri, nil
	}
	return "", domain.NewUploadFailedError(fmt.Sprintf("gs://%s/%s", s.bucket, objectPath), lastErr)
}

func (s *ObjectStore) writeObject(ctx context.Context, objectPath string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *ObjectStore) Close() error {
	return s.client.Close()
}
