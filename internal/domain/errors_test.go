package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		code  string
	}{
		{
			name:  "data unavailable",
			err:   NewDataUnavailableError(errors.New("timeout"), errors.New("no such file")),
			check: IsDataUnavailable,
			code:  "DATA_UNAVAILABLE",
		},
		{
			name:  "schema violation",
			err:   NewSchemaViolationError("column Churn absent"),
			check: IsSchemaViolation,
			code:  "SCHEMA_VIOLATION",
		},
		{
			name:  "upload failed",
			err:   NewUploadFailedError("gs://bucket/object", errors.New("403")),
			check: IsUploadFailed,
			code:  "UPLOAD_FAILED",
		},
		{
			name:  "ingest failed without cause",
			err:   NewIngestFailedError("2 of 7 rows rejected", nil),
			check: IsIngestFailed,
			code:  "INGEST_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("classifier rejected its own error: %v", tt.err)
			}
			if !strings.Contains(tt.err.Error(), tt.code) {
				t.Errorf("Error() = %q, want code %q", tt.err.Error(), tt.code)
			}

			var pe *PipelineError
			if !errors.As(tt.err, &pe) {
				t.Fatalf("error is not a *PipelineError: %T", tt.err)
			}
			if pe.Code != tt.code {
				t.Errorf("Code = %q, want %q", pe.Code, tt.code)
			}
		})
	}
}

func TestClassifiersAreDisjoint(t *testing.T) {
	err := NewSchemaViolationError("bad column")
	if IsUploadFailed(err) || IsIngestFailed(err) || IsDataUnavailable(err) {
		t.Error("schema violation matched an unrelated classifier")
	}
}

func TestWrappedErrorsSurvive(t *testing.T) {
	err := fmt.Errorf("stage failed: %w", NewUploadFailedError("gs://b/o", errors.New("quota")))
	if !IsUploadFailed(err) {
		t.Error("classifier lost through fmt.Errorf wrapping")
	}
}
