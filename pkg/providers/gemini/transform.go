package gemini

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"frontmentor/askgate/pkg/providers"
)

// Gemini API request/response types

// GenerateContentRequest is the generateContent request body.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// Content is one conversational turn.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a piece of content. Only text parts are produced and consumed.
type Part struct {
	Text *string `json:"text,omitempty"`
}

// GenerateContentResponse is the subset of the success envelope we read.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// ErrorEnvelope is the Google API error body.
type ErrorEnvelope struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail carries the provider's error fields.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// MalformedSuccessMessage is the Failure message for a 2xx body without
// usable text.
const MalformedSuccessMessage = "malformed success body"

// maxBodyMessage caps how much of a non-JSON error body becomes the Failure
// message.
const maxBodyMessage = 512

// buildRequest wraps prompt as a single user turn.
func buildRequest(prompt string) GenerateContentRequest {
	return GenerateContentRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: &prompt}},
		}},
	}
}

// decodeRaw decodes body as generic JSON, returning nil when it is empty or
// not valid JSON.
func decodeRaw(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	return raw
}

// transformResponse turns a complete HTTP response into an Outcome.
func transformResponse(resp *providers.Response) providers.Outcome {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return providers.Failed(transformError(resp))
	}

	var parsed GenerateContentResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return providers.Failed(&providers.Failure{
			StatusCode: resp.StatusCode,
			Message:    MalformedSuccessMessage,
			Raw:        decodeRaw(resp.Body),
		})
	}

	text, ok := extractText(&parsed)
	if !ok {
		return providers.Failed(&providers.Failure{
			StatusCode: resp.StatusCode,
			Message:    MalformedSuccessMessage,
			Raw:        decodeRaw(resp.Body),
		})
	}

	return providers.Success(text)
}

// extractText concatenates the text parts of the first candidate. It
// reports false when there is no candidate or the concatenated text is empty.
func extractText(resp *GenerateContentResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}

	var sb strings.Builder
	for _, p := range content.Parts {
		if p.Text != nil {
			sb.WriteString(*p.Text)
		}
	}
	return sb.String(), sb.Len() > 0
}

// transformError builds the Failure for a non-2xx response. The message is
// the provider's error.message when present, otherwise the trimmed body cut
// to maxBodyMessage bytes, otherwise the standard status text.
func transformError(resp *providers.Response) *providers.Failure {
	f := &providers.Failure{
		StatusCode: resp.StatusCode,
		Raw:        decodeRaw(resp.Body),
	}

	var env ErrorEnvelope
	if err := json.Unmarshal(resp.Body, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		f.Message = env.Error.Message
	} else if trimmed := strings.TrimSpace(string(resp.Body)); trimmed != "" {
		f.Message = truncateBody(trimmed)
	} else {
		f.Message = http.StatusText(resp.StatusCode)
	}

	f.Message = providers.RedactSecrets(f.Message)
	return f
}

// truncateBody shortens s to maxBodyMessage bytes without splitting a rune.
func truncateBody(s string) string {
	if len(s) <= maxBodyMessage {
		return s
	}
	cut := maxBodyMessage
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
