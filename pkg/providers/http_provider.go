package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxResponseBytes caps response bodies read from the provider.
const DefaultMaxResponseBytes = 8 << 20

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPProvider is the base for HTTP provider clients. It owns a pooled
// transport, the rotating credential and request counters.
//
// Every call performs exactly one HTTP exchange. Retrying another model is
// the caller's decision, never the client's.
type HTTPProvider struct {
	config ProviderConfig
	client *http.Client
	apiKey atomic.Pointer[string]

	statsMu sync.Mutex
	stats   Stats
}

// NewHTTPProvider creates a base HTTP provider with connection pooling.
func NewHTTPProvider(config ProviderConfig) *HTTPProvider {
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 20
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = config.MaxIdleConns
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}
	if config.MaxResponseBytes == 0 {
		config.MaxResponseBytes = DefaultMaxResponseBytes
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	p := &HTTPProvider{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
	p.SetAPIKey(config.APIKey)
	return p
}

// Name returns the provider's configured name.
func (p *HTTPProvider) Name() string {
	return p.config.Name
}

// Config returns the provider's configuration.
func (p *HTTPProvider) Config() ProviderConfig {
	return p.config
}

// APIKey returns the current credential.
func (p *HTTPProvider) APIKey() string {
	if k := p.apiKey.Load(); k != nil {
		return *k
	}
	return ""
}

// SetAPIKey replaces the credential used by subsequent calls. Calls already
// in flight keep the key they started with.
func (p *HTTPProvider) SetAPIKey(key string) {
	p.apiKey.Store(&key)
}

// Stats returns a snapshot of the request counters.
func (p *HTTPProvider) Stats() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	return p.stats
}

func (p *HTTPProvider) record(failed bool) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.TotalRequests++
	if failed {
		p.stats.FailedRequests++
	}
	p.stats.LastRequest = time.Now()
}

// DoRequest performs one HTTP exchange and reads the whole body. Any error
// means no usable response was obtained; a non-2xx status is not an error.
// The returned error never contains the request URL.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %s", RedactSecrets(err.Error()))
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.DebugContext(ctx, "sending request to provider",
		"provider", p.config.Name,
		"method", method,
		"path", req.URL.Path,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		p.record(true)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.config.MaxResponseBytes))
	if err != nil {
		p.record(true)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	p.record(resp.StatusCode < 200 || resp.StatusCode > 299)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Close releases pooled connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	slog.Debug("provider closed", "provider", p.config.Name)
	return nil
}
