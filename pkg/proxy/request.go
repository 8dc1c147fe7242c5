package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"frontmentor/askgate/pkg/classifier"
	"frontmentor/askgate/pkg/proxy/types"
)

const (
	// MaxRequestBodySize is the maximum allowed request body size (1MB).
	MaxRequestBodySize = 1 << 20

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// ParseAskRequest parses and validates the body of POST /api/ask.
//
// The body is limited to MaxRequestBodySize. Every failure is returned as
// a *RequestError, which HandleError maps to InputInvalid.
func ParseAskRequest(r *http.Request) (*types.AskRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		return nil, &RequestError{
			Message: "Could not read the request body.",
			Param:   "body",
			Err:     err,
		}
	}

	if len(body) > MaxRequestBodySize {
		return nil, &RequestError{
			Message: fmt.Sprintf("Request body exceeds the maximum size of %d bytes.", MaxRequestBodySize),
			Param:   "body",
		}
	}

	var req types.AskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &RequestError{
			Message: "Request body must be a JSON object with a \"question\" field.",
			Param:   "body",
			Err:     err,
		}
	}

	if err := req.Validate(); err != nil {
		var valErr *types.ValidationError
		if errors.As(err, &valErr) {
			return nil, &RequestError{Message: valErr.Message, Param: valErr.Field}
		}
		return nil, err
	}

	return &req, nil
}

// ExtractRequestID extracts the request ID from the X-Request-ID header.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

// RequestError represents a request parsing or validation error.
type RequestError struct {
	Message string
	Param   string
	Err     error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Classified converts the error into an InputInvalid classification.
func (e *RequestError) Classified() *classifier.ClassifiedError {
	return classifier.NewInputInvalid(e.Message)
}
