package audit

import (
	"context"
	"time"
)

// Record is the outcome of one /api/ask request.
//
// Records never carry the question or the generated answer; they describe
// what happened, not what was said.
type Record struct {
	// ID uniquely identifies the record (UUID v4).
	ID string `json:"id"`

	// RequestID correlates the record with logs and the X-Request-ID header.
	RequestID string `json:"request_id"`

	// Time is when the request completed.
	Time time.Time `json:"time"`

	// ModelUsed is the model that answered. Empty on failure.
	ModelUsed string `json:"model_used,omitempty"`

	// Category is the error category of a failed request. Empty on success.
	Category string `json:"category,omitempty"`

	// Status is the HTTP status returned to the client.
	Status int `json:"status"`

	// Attempts is the number of upstream calls made.
	Attempts int `json:"attempts"`

	// AttemptedModels lists the models tried, in order.
	AttemptedModels []string `json:"attempted_models,omitempty"`

	// LatencyMs is the total handling time in milliseconds.
	LatencyMs int64 `json:"latency_ms"`
}

// Succeeded reports whether the request was answered.
func (r *Record) Succeeded() bool {
	return r.Category == "" && r.Status < 400
}

// Query selects records for listing.
type Query struct {
	// Since filters records completed at or after this time. Zero means no lower bound.
	Since time.Time

	// Limit caps the number of records returned. 0 means no limit.
	Limit int
}

// Storage persists audit records.
//
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// List returns records matching q, newest first.
	List(ctx context.Context, q Query) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes records completed before cutoff and returns how
	// many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases backend resources.
	Close() error
}
