package fallback

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"frontmentor/askgate/pkg/classifier"
	"frontmentor/askgate/pkg/providers"
)

// Span and attribute names emitted by the orchestrator.
const (
	SpanRun     = "askgate.fallback.run"
	SpanAttempt = "askgate.fallback.attempt"

	AttrModel      = "askgate.model"
	AttrCandidates = "askgate.candidates"
	AttrAttempts   = "askgate.attempts"
	AttrStatus     = "askgate.upstream.status"
	AttrCategory   = "askgate.error.category"
)

// Observer receives attempt and run outcomes, typically to record metrics.
type Observer interface {
	ObserveAttempt(model string, outcome providers.Outcome, latency time.Duration)
	ObserveRun(result *Result)
}

// Result is the final outcome of one run.
type Result struct {
	// Text is the generated answer when the run succeeded.
	Text string

	// Model is the candidate that produced Text.
	Model string

	// Trace lists every attempt in order.
	Trace AttemptTrace

	// Err is set when no candidate succeeded.
	Err *classifier.ClassifiedError

	// Duration is the wall time of the whole run.
	Duration time.Duration
}

// OK reports whether the run produced an answer.
func (r *Result) OK() bool {
	return r.Err == nil
}

// LastModel returns the most recently attempted model, or "".
func (r *Result) LastModel() string {
	if last, ok := r.Trace.Last(); ok {
		return last.Model
	}
	return ""
}

// Orchestrator drives a Completer over the ordered candidate list.
//
// It holds no per-request state. The candidate list can be replaced at any
// time; each run works on the snapshot it took when it started.
type Orchestrator struct {
	client         providers.Completer
	candidates     atomic.Pointer[[]string]
	attemptTimeout time.Duration
	tracer         trace.Tracer
	observer       Observer
	logger         *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAttemptTimeout bounds each attempt. Zero disables the bound.
func WithAttemptTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.attemptTimeout = d }
}

// WithTracer sets the tracer used for run and attempt spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithObserver sets the observer notified after each attempt and run.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an orchestrator over client with the given candidates.
func New(client providers.Completer, candidates []string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		tracer: noop.NewTracerProvider().Tracer("askgate"),
		logger: slog.Default(),
	}
	o.SetCandidates(candidates)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Candidates returns a copy of the current candidate list.
func (o *Orchestrator) Candidates() []string {
	p := o.candidates.Load()
	if p == nil {
		return nil
	}
	out := make([]string, len(*p))
	copy(out, *p)
	return out
}

// SetCandidates atomically replaces the candidate list. Runs already in
// progress are unaffected.
func (o *Orchestrator) SetCandidates(candidates []string) {
	snapshot := make([]string, len(candidates))
	copy(snapshot, candidates)
	o.candidates.Store(&snapshot)
}

// runState is the accumulator threaded through the fold over candidates.
type runState struct {
	trace     AttemptTrace
	success   *Attempt
	cancelled error
}

// done reports whether the fold must stop after the latest step.
func (s runState) done() bool {
	if s.success != nil || s.cancelled != nil {
		return true
	}
	return len(s.trace) > 0 && !ShouldContinue(s.trace.LastFailure())
}

// Run tries the candidates in order with prompt. It returns on the first
// success, on the first failure that is not a 404, when the context is
// cancelled before an attempt, or when the list is exhausted.
func (o *Orchestrator) Run(ctx context.Context, prompt string) *Result {
	start := time.Now()
	candidates := o.Candidates()

	ctx, span := o.tracer.Start(ctx, SpanRun,
		trace.WithAttributes(attribute.Int(AttrCandidates, len(candidates))),
	)
	defer span.End()

	if len(candidates) == 0 {
		res := &Result{
			Err:      classifier.NewConfigMissing("No models are configured. Set upstream.models or ASKGATE_UPSTREAM_MODELS."),
			Duration: time.Since(start),
		}
		o.finishSpan(span, res)
		o.observeRun(res)
		return res
	}

	state := runState{}
	for _, model := range candidates {
		state = o.step(ctx, state, model, prompt)
		if state.done() {
			break
		}
	}

	res := o.result(state)
	res.Duration = time.Since(start)

	o.finishSpan(span, res)
	o.observeRun(res)
	return res
}

// step performs one attempt and returns the next state.
func (o *Orchestrator) step(ctx context.Context, state runState, model, prompt string) runState {
	if err := ctx.Err(); err != nil {
		state.cancelled = err
		o.logger.InfoContext(ctx, "run cancelled before attempt",
			"model", model,
			"attempts", len(state.trace),
		)
		return state
	}

	attempt := o.attempt(ctx, model, prompt)
	state.trace = append(state.trace, attempt)

	if attempt.Outcome.OK() {
		state.success = &attempt
		o.logger.InfoContext(ctx, "model attempt succeeded",
			"model", model,
			"latency_ms", attempt.Latency.Milliseconds(),
		)
		return state
	}

	f := attempt.Outcome.Failure
	if ShouldContinue(f) {
		o.logger.WarnContext(ctx, "model not found, trying next candidate",
			"model", model,
			"status", f.StatusCode,
		)
	} else {
		o.logger.WarnContext(ctx, "model attempt failed, stopping",
			"model", model,
			"status", f.StatusCode,
			"error", f.Message,
		)
	}
	return state
}

func (o *Orchestrator) attempt(ctx context.Context, model, prompt string) Attempt {
	ctx, span := o.tracer.Start(ctx, SpanAttempt,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(AttrModel, model)),
	)
	defer span.End()

	if o.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.attemptTimeout)
		defer cancel()
	}

	start := time.Now()
	out := o.client.Complete(ctx, model, prompt)
	latency := time.Since(start)

	if out.OK() {
		span.SetAttributes(attribute.Int(AttrStatus, 200))
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetAttributes(attribute.Int(AttrStatus, out.Failure.StatusCode))
		span.SetStatus(codes.Error, out.Failure.Message)
	}

	if o.observer != nil {
		o.observer.ObserveAttempt(model, out, latency)
	}

	return Attempt{Model: model, Outcome: out, Latency: latency}
}

// result converts the final fold state into a Result.
func (o *Orchestrator) result(state runState) *Result {
	res := &Result{Trace: state.trace}

	switch {
	case state.success != nil:
		res.Text = state.success.Outcome.Text
		res.Model = state.success.Model
	case state.cancelled != nil:
		res.Err = classifier.NewCancelled(state.cancelled)
	default:
		res.Err = classifier.Classify(state.trace.LastFailure())
	}
	return res
}

func (o *Orchestrator) finishSpan(span trace.Span, res *Result) {
	span.SetAttributes(attribute.Int(AttrAttempts, len(res.Trace)))
	if res.OK() {
		span.SetAttributes(attribute.String(AttrModel, res.Model))
		span.SetStatus(codes.Ok, "")
		return
	}
	span.SetAttributes(attribute.String(AttrCategory, string(res.Err.Category)))
	span.SetStatus(codes.Error, string(res.Err.Category))
}

func (o *Orchestrator) observeRun(res *Result) {
	if o.observer != nil {
		o.observer.ObserveRun(res)
	}
}
