package providers

import (
	"fmt"
	"time"
)

// Outcome is the result of exactly one completion call against one model.
// Exactly one of Text (with Failure == nil) or Failure is meaningful.
type Outcome struct {
	// Text is the generated answer when the call succeeded.
	Text string

	// Failure describes why the call did not produce text. Nil on success.
	Failure *Failure
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Failure == nil
}

// Success builds a successful outcome.
func Success(text string) Outcome {
	return Outcome{Text: text}
}

// Failed builds a failed outcome.
func Failed(f *Failure) Outcome {
	return Outcome{Failure: f}
}

// Failure is a normalized provider failure.
//
// StatusCode is the HTTP status returned by the provider, or 0 when no HTTP
// response was obtained (dial error, timeout, cancelled context, unreadable
// body, or a call rejected before it was made).
type Failure struct {
	// StatusCode is the provider HTTP status, 0 for transport failures.
	StatusCode int

	// Message is the provider's own error message when available, otherwise
	// a short description. It never contains the credential.
	Message string

	// Raw is the decoded provider payload, nil when the body was absent or
	// not valid JSON.
	Raw any
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.StatusCode > 0 {
		return fmt.Sprintf("provider failure (status %d): %s", f.StatusCode, f.Message)
	}
	return fmt.Sprintf("provider transport failure: %s", f.Message)
}

// IsTransport reports whether no HTTP response was obtained.
func (f *Failure) IsTransport() bool {
	return f.StatusCode == 0
}

// ProviderConfig contains configuration for an HTTP provider client.
type ProviderConfig struct {
	// Name identifies the provider in logs and metrics (e.g., "gemini").
	Name string

	// BaseURL is the provider host (e.g., "https://generativelanguage.googleapis.com").
	BaseURL string

	// APIVersion is the path segment before "/models" (e.g., "v1beta").
	APIVersion string

	// APIKey is the initial credential. It can be replaced at runtime.
	APIKey string

	// Timeout is the client-wide upper bound for one HTTP exchange. Per
	// attempt deadlines are normally set on the request context instead.
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections across all hosts.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum number of idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections stay in the pool.
	IdleConnTimeout time.Duration

	// MaxResponseBytes caps how much of a response body is read.
	MaxResponseBytes int64
}

// Stats are cumulative request counters for a provider client.
type Stats struct {
	// TotalRequests is the number of HTTP exchanges attempted.
	TotalRequests int64

	// FailedRequests counts transport failures and non-2xx responses.
	FailedRequests int64

	// LastRequest is when the most recent exchange finished.
	LastRequest time.Time
}
