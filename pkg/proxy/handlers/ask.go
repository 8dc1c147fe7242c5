package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"frontmentor/askgate/pkg/audit"
	"frontmentor/askgate/pkg/classifier"
	"frontmentor/askgate/pkg/config"
	"frontmentor/askgate/pkg/fallback"
	"frontmentor/askgate/pkg/proxy"
	"frontmentor/askgate/pkg/proxy/middleware"
	"frontmentor/askgate/pkg/proxy/types"
)

// missingCredentialMessage is returned when no usable API key is configured.
var missingCredentialMessage = "The Google API key is not configured. " +
	"Set GOOGLE_API_KEY (or upstream.api_key in the config file) to a key from " +
	classifier.APIKeyConsoleURL + " and reload the configuration."

// Runner answers a prompt by trying the configured models in order.
type Runner interface {
	Run(ctx context.Context, prompt string) *fallback.Result
}

// CredentialSource exposes the credential currently used upstream.
type CredentialSource interface {
	APIKey() string
}

// RejectionRecorder counts asks refused before orchestration.
type RejectionRecorder interface {
	RecordRejected(category string)
}

// AuditSink receives one record per completed ask.
type AuditSink interface {
	Record(ctx context.Context, rec *audit.Record) bool
}

// AskOptions are the reloadable settings of the ask handler.
type AskOptions struct {
	// PromptTemplate wraps the question; its single "%s" is replaced by the
	// trimmed question. Empty sends the question as is.
	PromptTemplate string

	// ExposeDiagnostics adds the provider payload, the last attempted model
	// and the attempt list to error responses.
	ExposeDiagnostics bool
}

// AskHandler serves POST /api/ask.
type AskHandler struct {
	runner      Runner
	credentials CredentialSource
	rejections  RejectionRecorder
	audit       AuditSink
	options     atomic.Pointer[AskOptions]
}

// AskOption configures optional collaborators of an AskHandler.
type AskOption func(*AskHandler)

// WithRejectionRecorder reports local rejections to rec.
func WithRejectionRecorder(rec RejectionRecorder) AskOption {
	return func(h *AskHandler) {
		h.rejections = rec
	}
}

// WithAuditSink sends an outcome record for each ask to sink.
func WithAuditSink(sink AuditSink) AskOption {
	return func(h *AskHandler) {
		h.audit = sink
	}
}

// NewAskHandler creates the ask handler.
func NewAskHandler(runner Runner, credentials CredentialSource, opts AskOptions, extra ...AskOption) *AskHandler {
	h := &AskHandler{
		runner:      runner,
		credentials: credentials,
	}
	h.SetOptions(opts)
	for _, o := range extra {
		o(h)
	}
	return h
}

// SetOptions replaces the handler options. Requests already in flight keep
// the options they started with.
func (h *AskHandler) SetOptions(opts AskOptions) {
	h.options.Store(&opts)
}

// Options returns the current options.
func (h *AskHandler) Options() AskOptions {
	return *h.options.Load()
}

// ServeHTTP implements http.Handler.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	opts := h.Options()
	requestID := middleware.GetRequestID(ctx)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.reject(ctx, w, classifier.NewMethodNotAllowed(r.Method), requestID, opts, start)
		return
	}

	req, err := proxy.ParseAskRequest(r)
	if err != nil {
		slog.WarnContext(ctx, "invalid ask request", "error", err)
		h.reject(ctx, w, proxy.HandleError(err), requestID, opts, start)
		return
	}

	if h.credentials == nil || !config.IsCredentialConfigured(h.credentials.APIKey()) {
		slog.ErrorContext(ctx, "upstream credential is not configured")
		h.reject(ctx, w, classifier.NewConfigMissing(missingCredentialMessage), requestID, opts, start)
		return
	}

	question := strings.TrimSpace(req.Question)
	slog.InfoContext(ctx, "processing question", "question_chars", len(question))

	res := h.runner.Run(ctx, buildPrompt(opts.PromptTemplate, question))

	if !res.OK() {
		slog.WarnContext(ctx, "question failed",
			"category", res.Err.Category,
			"status", res.Err.StatusCode,
			"attempts", len(res.Trace),
			"last_model", res.LastModel(),
		)

		var diag *proxy.Diagnostics
		if opts.ExposeDiagnostics {
			diag = &proxy.Diagnostics{Trace: res.Trace, RequestID: requestID}
		}
		if err := proxy.WriteErrorResponse(w, res.Err, diag); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		h.record(ctx, &audit.Record{
			RequestID:       requestID,
			Category:        string(res.Err.Category),
			Status:          res.Err.StatusCode,
			Attempts:        len(res.Trace),
			AttemptedModels: res.Trace.Models(),
			LatencyMs:       time.Since(start).Milliseconds(),
		})
		return
	}

	slog.InfoContext(ctx, "question answered",
		"model", res.Model,
		"attempts", len(res.Trace),
		"duration_ms", res.Duration.Milliseconds(),
	)

	resp := types.AskResponse{Response: res.Text, ModelUsed: res.Model}
	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
	h.record(ctx, &audit.Record{
		RequestID:       requestID,
		ModelUsed:       res.Model,
		Status:          http.StatusOK,
		Attempts:        len(res.Trace),
		AttemptedModels: res.Trace.Models(),
		LatencyMs:       time.Since(start).Milliseconds(),
	})
}

// reject answers a request refused before any upstream call.
func (h *AskHandler) reject(ctx context.Context, w http.ResponseWriter, ce *classifier.ClassifiedError, requestID string, opts AskOptions, start time.Time) {
	if h.rejections != nil {
		h.rejections.RecordRejected(string(ce.Category))
	}

	var diag *proxy.Diagnostics
	if opts.ExposeDiagnostics {
		diag = &proxy.Diagnostics{RequestID: requestID}
	}
	if err := proxy.WriteErrorResponse(w, ce, diag); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}

	h.record(ctx, &audit.Record{
		RequestID: requestID,
		Category:  string(ce.Category),
		Status:    ce.StatusCode,
		LatencyMs: time.Since(start).Milliseconds(),
	})
}

func (h *AskHandler) record(ctx context.Context, rec *audit.Record) {
	if h.audit == nil {
		return
	}
	h.audit.Record(ctx, rec)
}

// buildPrompt substitutes question into tmpl. Other '%' characters in the
// template are left alone.
func buildPrompt(tmpl, question string) string {
	if !strings.Contains(tmpl, "%s") {
		if tmpl == "" {
			return question
		}
		return tmpl + "\n\n" + question
	}
	return strings.Replace(tmpl, "%s", question, 1)
}
