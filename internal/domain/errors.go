package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline failure taxonomy. Every stage failure is
// terminal for the current run.
var (
	// ErrDataUnavailable means neither the remote nor the local dataset
	// source could be read.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrSchemaViolation means a required column is absent or a categorical
	// value cannot be mapped.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrUploadFailed means the blob-storage write did not succeed within
	// the configured attempts.
	ErrUploadFailed = errors.New("upload failed")
	// ErrIngestFailed means the feature-registry write failed, including
	// partial-batch rejection.
	ErrIngestFailed = errors.New("ingest failed")
)

// PipelineError carries a stable code alongside a human-readable message and
// the wrapped cause.
type PipelineError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewDataUnavailableError creates a load failure covering both sources.
func NewDataUnavailableError(remoteErr, localErr error) error {
	return &PipelineError{
		Code:    "DATA_UNAVAILABLE",
		Message: "no dataset source is readable",
		Err:     fmt.Errorf("%w: remote: %v; local: %v", ErrDataUnavailable, remoteErr, localErr),
	}
}

// NewSchemaViolationError creates a schema failure for a column or value.
func NewSchemaViolationError(message string) error {
	return &PipelineError{
		Code:    "SCHEMA_VIOLATION",
		Message: message,
		Err:     ErrSchemaViolation,
	}
}

// NewUploadFailedError creates a storage write failure.
func NewUploadFailedError(location string, err error) error {
	return &PipelineError{
		Code:    "UPLOAD_FAILED",
		Message: fmt.Sprintf("failed to upload %s", location),
		Err:     fmt.Errorf("%w: %v", ErrUploadFailed, err),
	}
}

// NewIngestFailedError creates a feature-registry write failure.
func NewIngestFailedError(message string, err error) error {
	wrapped := error(ErrIngestFailed)
	if err != nil {
		wrapped = fmt.Errorf("%w: %v", ErrIngestFailed, err)
	}
	return &PipelineError{
		Code:    "INGEST_FAILED",
		Message: message,
		Err:     wrapped,
	}
}

// IsDataUnavailable reports whether err is a load failure.
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

// IsSchemaViolation reports whether err is a schema failure.
func IsSchemaViolation(err error) bool {
	return errors.Is(err, ErrSchemaViolation)
}

// IsUploadFailed reports whether err is a storage write failure.
func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

// IsIngestFailed reports whether err is a feature-registry write failure.
func IsIngestFailed(err error) bool {
	return errors.Is(err, ErrIngestFailed)
}
