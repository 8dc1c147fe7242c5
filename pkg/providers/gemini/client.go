package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"frontmentor/askgate/pkg/providers"
)

const (
	// DefaultBaseURL is the public Generative Language API host.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultAPIVersion is the API version used for generateContent.
	DefaultAPIVersion = "v1beta"
)

// Client is the Gemini upstream client. It issues exactly one
// generateContent call per Complete and never retries.
type Client struct {
	*providers.HTTPProvider
}

// NewClient creates a Gemini client. An empty credential is accepted; calls
// made without one are answered by the provider with an auth failure.
func NewClient(config providers.ProviderConfig) (*Client, error) {
	if config.Name == "" {
		config.Name = "gemini"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("gemini: invalid base URL %q", config.BaseURL)
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	c := &Client{HTTPProvider: providers.NewHTTPProvider(config)}

	slog.Info("gemini client initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"api_version", config.APIVersion,
	)

	return c, nil
}

// Complete sends prompt to model and returns the outcome of that single
// call. Empty model or prompt fail without contacting the provider.
func (c *Client) Complete(ctx context.Context, model, prompt string) providers.Outcome {
	if strings.TrimSpace(model) == "" {
		return providers.Failed(&providers.Failure{Message: "model is required"})
	}
	if strings.TrimSpace(prompt) == "" {
		return providers.Failed(&providers.Failure{Message: "prompt is required"})
	}

	body, err := json.Marshal(buildRequest(prompt))
	if err != nil {
		return providers.Failed(&providers.Failure{Message: fmt.Sprintf("failed to encode request: %v", err)})
	}

	resp, err := c.DoRequest(ctx, http.MethodPost, c.generateContentURL(model), body, nil)
	if err != nil {
		f := providers.TransportFailure(err)
		slog.DebugContext(ctx, "generateContent transport failure",
			"model", model,
			"error", f.Message,
		)
		return providers.Failed(f)
	}

	out := transformResponse(resp)
	if out.OK() {
		slog.DebugContext(ctx, "generateContent succeeded", "model", model, "chars", len(out.Text))
	} else {
		slog.DebugContext(ctx, "generateContent failed",
			"model", model,
			"status", out.Failure.StatusCode,
			"message", out.Failure.Message,
		)
	}
	return out
}

// generateContentURL builds
// {base}/{version}/models/{model}:generateContent?key={key}.
func (c *Client) generateContentURL(model string) string {
	cfg := c.Config()
	q := url.Values{}
	q.Set("key", c.APIKey())
	return fmt.Sprintf("%s/%s/models/%s:generateContent?%s",
		cfg.BaseURL, cfg.APIVersion, url.PathEscape(model), q.Encode())
}
