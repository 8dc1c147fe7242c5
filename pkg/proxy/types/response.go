package types

// AskResponse is returned when a candidate model produced an answer.
type AskResponse struct {
	// Response is the generated answer text.
	Response string `json:"response"`

	// ModelUsed is the model that produced Response.
	ModelUsed string `json:"modelUsed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health is the fixed liveness answer.
var Health = HealthResponse{
	Status:  "OK",
	Message: "Server is running!",
}
