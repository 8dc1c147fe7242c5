package audit

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when recording into a closed recorder.
var ErrClosed = errors.New("audit recorder is closed")

// StorageError represents a failure inside a storage backend.
type StorageError struct {
	Backend   string // "memory", "sqlite"
	Operation string // "store", "list", "count", "delete", "open"
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage error [%s] during %s: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new storage error.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// ExportError represents a failure writing records in an export format.
type ExportError struct {
	Format      string
	RecordCount int
	Cause       error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("audit export error [%s] after %d records: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new export error.
func NewExportError(format string, count int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: count,
		Cause:       cause,
	}
}
