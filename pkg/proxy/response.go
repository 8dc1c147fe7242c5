package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"frontmentor/askgate/pkg/classifier"
	"frontmentor/askgate/pkg/fallback"
	"frontmentor/askgate/pkg/proxy/types"
)

// Diagnostics carries the optional fields of an error envelope.
type Diagnostics struct {
	Trace     fallback.AttemptTrace
	RequestID string
}

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes ce as the standard error envelope with ce's
// status code. When diag is nil only error and category are written.
func WriteErrorResponse(w http.ResponseWriter, ce *classifier.ClassifiedError, diag *Diagnostics) error {
	return WriteJSONResponse(w, ce.StatusCode, NewErrorResponse(ce, diag))
}

// NewErrorResponse builds the error envelope for ce.
func NewErrorResponse(ce *classifier.ClassifiedError, diag *Diagnostics) *types.ErrorResponse {
	resp := &types.ErrorResponse{
		Error:    ce.Message,
		Category: string(ce.Category),
	}
	if diag == nil {
		return resp
	}

	resp.RequestID = diag.RequestID
	if len(diag.Trace) == 0 {
		return resp
	}

	last, _ := diag.Trace.Last()
	resp.LastModel = last.Model
	if f := last.Outcome.Failure; f != nil && f.Raw != nil {
		resp.Details = f.Raw
	}

	resp.Attempts = make([]types.AttemptInfo, len(diag.Trace))
	for i, a := range diag.Trace {
		resp.Attempts[i] = types.AttemptInfo{Model: a.Model, Status: a.Status()}
	}
	return resp
}
