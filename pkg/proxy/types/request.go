package types

import "strings"

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	// Question is the user's front-end question. Required, not blank.
	Question string `json:"question"`
}

// Validate checks that the question is present.
func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return &ValidationError{
			Field:   "question",
			Message: "Please send a question.",
		}
	}
	return nil
}

// ValidationError represents a request field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
