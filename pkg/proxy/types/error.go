package types

// ErrorResponse is the envelope for every failed ask.
//
// Error and Category are always present. The remaining fields are
// diagnostics and are omitted when diagnostics are disabled or unknown.
type ErrorResponse struct {
	// Error is the human-readable message.
	Error string `json:"error"`

	// Category is the stable error category (e.g. "RateLimited").
	Category string `json:"category"`

	// Details is the parsed upstream error body, when there was one.
	Details any `json:"details,omitempty"`

	// LastModel is the last model attempted. The wire name is kept for
	// compatibility with existing front-ends.
	LastModel string `json:"modeloTentado,omitempty"`

	// Attempts lists every model tried, in order, with its status.
	Attempts []AttemptInfo `json:"attempts,omitempty"`

	// RequestID correlates the response with server logs.
	RequestID string `json:"requestId,omitempty"`
}

// AttemptInfo summarizes one upstream attempt. Status 0 means the call
// never produced an HTTP response.
type AttemptInfo struct {
	Model  string `json:"model"`
	Status int    `json:"status"`
}
