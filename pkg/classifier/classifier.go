package classifier

import (
	"fmt"
	"net/http"
	"strings"

	"frontmentor/askgate/pkg/providers"
)

// Category is a stable, user-facing error category.
type Category string

const (
	// BadRequest means the provider rejected the request or the model name.
	BadRequest Category = "BadRequest"

	// AuthInvalid means the credential is invalid or lacks permission.
	AuthInvalid Category = "AuthInvalid"

	// NotFound means no candidate model was usable.
	NotFound Category = "NotFound"

	// RateLimited means the provider throttled the request.
	RateLimited Category = "RateLimited"

	// UpstreamUnavailable is a transient provider outage.
	UpstreamUnavailable Category = "UpstreamUnavailable"

	// Unknown covers transport failures and unmapped statuses.
	Unknown Category = "Unknown"

	// InputInvalid is detected locally: the question is missing or blank.
	InputInvalid Category = "InputInvalid"

	// ConfigMissing is detected locally: no usable credential or no
	// candidate models.
	ConfigMissing Category = "ConfigMissing"

	// MethodNotAllowed is detected locally: the ask endpoint was called
	// with a method other than POST.
	MethodNotAllowed Category = "MethodNotAllowed"
)

// Links and commands quoted in messages.
const (
	ModelsDocURL     = "https://ai.google.dev/models"
	APIKeyConsoleURL = "https://aistudio.google.com/app/apikey"
	ListModelsHint   = "askgate models"
)

// ClassifiedError is the normalized, user-facing form of a failure.
type ClassifiedError struct {
	// Category is the stable error category.
	Category Category

	// Message is the human-readable message returned to the caller.
	Message string

	// StatusCode is the HTTP status returned to the caller.
	StatusCode int

	// ProviderStatus is the status of the classified Failure, 0 for
	// transport failures and local errors.
	ProviderStatus int
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.Category, e.StatusCode, e.Message)
}

// Classify maps a provider Failure to a ClassifiedError. It is a pure
// function: the same Failure always yields an equal result.
func Classify(f *providers.Failure) *ClassifiedError {
	if f == nil {
		return &ClassifiedError{
			Category:   Unknown,
			Message:    "Failed to communicate with the Google API.",
			StatusCode: http.StatusInternalServerError,
		}
	}

	detail := strings.TrimSpace(f.Message)
	ce := &ClassifiedError{ProviderStatus: f.StatusCode}

	switch f.StatusCode {
	case http.StatusBadRequest:
		ce.Category = BadRequest
		ce.StatusCode = http.StatusBadRequest
		ce.Message = "Invalid request to the Google API."
		ce.Message = appendDetail(ce.Message, detail)
		if mentionsModel(detail) {
			ce.Message += "\n\nTip: the model name may be wrong. Check the available models at " + ModelsDocURL
		}

	case http.StatusUnauthorized, http.StatusForbidden:
		ce.Category = AuthInvalid
		ce.StatusCode = f.StatusCode
		ce.Message = "API key is invalid or lacks permission.\n\n" +
			"Check:\n" +
			"1. That GOOGLE_API_KEY is set to the correct key\n" +
			"2. That the key is active at " + APIKeyConsoleURL + "\n" +
			"3. That the Gemini API is enabled in your Google Cloud project"
		ce.Message = appendDetail(ce.Message, detail)

	case http.StatusNotFound:
		ce.Category = NotFound
		ce.StatusCode = http.StatusNotFound
		ce.Message = "Model not found in the Google API.\n\n" +
			"Older models may no longer be available.\n" +
			"Run: " + ListModelsHint + "\n\n" +
			"to see which models are available and work with your key."
		ce.Message = appendDetail(ce.Message, detail)

	case http.StatusTooManyRequests:
		ce.Category = RateLimited
		ce.StatusCode = http.StatusTooManyRequests
		ce.Message = "Request limit exceeded. Wait a moment and try again."
		ce.Message = appendDetail(ce.Message, detail)

	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		ce.Category = UpstreamUnavailable
		ce.StatusCode = f.StatusCode
		ce.Message = "Google server error. Try again in a few moments."
		ce.Message = appendDetail(ce.Message, detail)

	default:
		ce.Category = Unknown
		ce.StatusCode = http.StatusInternalServerError
		if f.StatusCode > 0 {
			ce.Message = fmt.Sprintf("Failed to communicate with the Google API (status %d).", f.StatusCode)
		} else {
			ce.Message = "Failed to communicate with the Google API."
		}
		ce.Message = appendDetail(ce.Message, detail)
	}

	return ce
}

// NewInputInvalid builds the local error for a missing or blank question.
func NewInputInvalid(message string) *ClassifiedError {
	return &ClassifiedError{
		Category:   InputInvalid,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewMethodNotAllowed builds the local error for a non-POST ask request.
func NewMethodNotAllowed(method string) *ClassifiedError {
	return &ClassifiedError{
		Category:   MethodNotAllowed,
		Message:    fmt.Sprintf("Method %s not allowed. Use POST instead.", method),
		StatusCode: http.StatusMethodNotAllowed,
	}
}

// NewConfigMissing builds the local error for a missing credential or an
// empty candidate list.
func NewConfigMissing(message string) *ClassifiedError {
	return &ClassifiedError{
		Category:   ConfigMissing,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewCancelled builds the error for a run abandoned because the caller
// went away before any further attempt could start.
func NewCancelled(cause error) *ClassifiedError {
	msg := "Request cancelled before the Google API answered."
	if cause != nil {
		msg = appendDetail(msg, cause.Error())
	}
	return &ClassifiedError{
		Category:   Unknown,
		Message:    msg,
		StatusCode: http.StatusInternalServerError,
	}
}

func appendDetail(msg, detail string) string {
	if detail == "" {
		return msg
	}
	return msg + "\n\nDetails: " + detail
}

func mentionsModel(detail string) bool {
	lower := strings.ToLower(detail)
	return strings.Contains(lower, "model") || strings.Contains(lower, "not found")
}
