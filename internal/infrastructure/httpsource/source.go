// Package httpsource provides dataset sources backed by a remote CSV URL
// and a local file fallback.
package httpsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/merongithub/ChurnPrediction/internal/dataprep"
	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// RemoteSource fetches the dataset over HTTPS. On a successful fetch it also
// caches the raw bytes to cachePath so the file source can serve the same
// dataset when the network is unavailable later.
type RemoteSource struct {
	url       string
	cachePath string
	client    *http.Client
	logger    *slog.Logger
}

// NewRemoteSource creates a remote CSV source with the given request timeout.
// cachePath may be empty to disable caching of the raw download.
func NewRemoteSource(url string, timeout time.Duration, cachePath string, logger *slog.Logger) *RemoteSource {
	return &RemoteSource{
		url:       url,
		cachePath: cachePath,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Fetch downloads and parses the remote CSV.
func (s *RemoteSource) Fetch(ctx context.Context) (*entity.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	ds, err := dataprep.ReadCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse csv failed: %w", err)
	}

	if s.cachePath != "" {
		if err := writeFileAtomic(s.cachePath, body); err != nil {
			// Cache failure must not fail the load; the fetched data is good.
			s.logger.Warn("failed to cache raw dataset", "path", s.cachePath, "error", err)
		} else {
			s.logger.Info("cached raw dataset", "path", s.cachePath, "bytes", len(body))
		}
	}

	s.logger.Info("loaded dataset from url", "url", s.url, "rows", ds.NumRows())
	return ds, nil
}

// FileSource reads the dataset from a local CSV file.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a local file source.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// Fetch reads and parses the local CSV file.
func (s *FileSource) Fetch(ctx context.Context) (*entity.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open local dataset failed: %w", err)
	}
	defer f.Close()

	ds, err := dataprep.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse csv failed: %w", err)
	}

	s.logger.Info("loaded dataset from local file", "path", s.path, "rows", ds.NumRows())
	return ds, nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
