package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is a fake Gemini endpoint for tests. Responses are keyed by
// URL path; unknown paths answer with a Gemini style 404 envelope.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	requests  []RecordedRequest
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string
}

// RecordedRequest is one request observed by the mock.
type RecordedRequest struct {
	Method string
	Path   string
	Key    string
	Body   []byte
}

// NewMockServer creates and starts a mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets a mock response for a specific path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// SetModelResponse sets the generateContent response for model under the
// given API version.
func (ms *MockServer) SetModelResponse(version, model string, response MockResponse) {
	ms.SetResponse(GenerateContentPath(version, model), response)
}

// GetRequestCount returns the number of requests received.
func (ms *MockServer) GetRequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// Requests returns a copy of the recorded requests in arrival order.
func (ms *MockServer) Requests() []RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]RecordedRequest, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// RequestedPaths returns the paths of the recorded requests in order.
func (ms *MockServer) RequestedPaths() []string {
	reqs := ms.Requests()
	paths := make([]string, len(reqs))
	for i, r := range reqs {
		paths[i] = r.Path
	}
	return paths
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Key:    r.URL.Query().Get("key"),
		Body:   body,
	})
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		response = MockResponse{
			StatusCode: http.StatusNotFound,
			Body:       GeminiError(http.StatusNotFound, fmt.Sprintf("%s is not found", r.URL.Path), "NOT_FOUND"),
		}
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	if _, isString := response.Body.(string); !isString && response.Body != nil {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(response.StatusCode)

	switch v := response.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	case []byte:
		_, _ = w.Write(v)
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

// GenerateContentPath returns the request path for a generateContent call.
func GenerateContentPath(version, model string) string {
	return fmt.Sprintf("/%s/models/%s:generateContent", version, model)
}

// GeminiSuccess builds a generateContent success envelope whose first
// candidate carries the given text parts.
func GeminiSuccess(parts ...string) map[string]interface{} {
	ps := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		ps = append(ps, map[string]interface{}{"text": p})
	}
	return map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": ps,
				},
				"finishReason": "STOP",
			},
		},
	}
}

// GeminiError builds a Google API error envelope.
func GeminiError(code int, message, status string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
			"status":  status,
		},
	}
}

// MockModel is one entry of a fake models.list response.
type MockModel struct {
	Name            string
	DisplayName     string
	GenerateContent bool
}

// GeminiModelList builds a models.list response.
func GeminiModelList(models ...MockModel) map[string]interface{} {
	list := make([]interface{}, 0, len(models))
	for _, m := range models {
		methods := []interface{}{"countTokens"}
		if m.GenerateContent {
			methods = append(methods, "generateContent")
		}
		list = append(list, map[string]interface{}{
			"name":                       "models/" + m.Name,
			"displayName":                m.DisplayName,
			"supportedGenerationMethods": methods,
		})
	}
	return map[string]interface{}{"models": list}
}
