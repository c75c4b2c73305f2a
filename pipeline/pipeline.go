// Package pipeline delivers a structured generation request to Gemini and
// retries transient failures with exponential backoff until it reaches a
// terminal outcome.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/ai-uigen/contrib/provider/gemini"
	errorskg "github.com/sweetpotato0/ai-uigen/errors"
	"github.com/sweetpotato0/ai-uigen/generation"
	"github.com/sweetpotato0/ai-uigen/pkg/logging"
	"github.com/sweetpotato0/ai-uigen/pkg/metrics"
	"github.com/sweetpotato0/ai-uigen/pkg/telemetry"
)

const (
	// DefaultMaxAttempts is the number of retries after the first attempt.
	DefaultMaxAttempts = 5
	// DefaultBaseDelay is the wait before the first retry.
	DefaultBaseDelay = time.Second
)

// Sender performs one generateContent exchange.
type Sender interface {
	Send(ctx context.Context, payload *gemini.Payload) (*gemini.Envelope, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, payload *gemini.Payload) (*gemini.Envelope, error)

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, payload *gemini.Payload) (*gemini.Envelope, error) {
	return f(ctx, payload)
}

// Sleeper blocks for d. It is not interruptible.
type Sleeper func(d time.Duration)

// State is a pipeline lifecycle state.
type State int

const (
	StateIdle State = iota
	StateSending
	StateRetryWaiting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateRetryWaiting:
		return "retry_waiting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// RetryState is the private bookkeeping of one run.
type RetryState struct {
	Attempt     int
	MaxAttempts int
	BaseDelay   time.Duration
}

// Exhausted reports whether no retry is left.
func (r RetryState) Exhausted() bool {
	return r.Attempt >= r.MaxAttempts
}

// Delay is BaseDelay * 2^Attempt.
func (r RetryState) Delay() time.Duration {
	return r.BaseDelay << uint(r.Attempt)
}

// Transition is reported to the state hook on every state change.
type Transition struct {
	From  State
	To    State
	Retry RetryState
	Delay time.Duration
	Err   error
}

// Outcome is the single terminal value of a run.
type Outcome struct {
	Result *generation.Result
	Err    error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaxAttempts overrides the retry limit.
func WithMaxAttempts(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.maxAttempts = n
		}
	}
}

// WithBaseDelay overrides the first retry delay.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.baseDelay = d
		}
	}
}

// WithSleeper replaces time.Sleep, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sleep = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records attempts and outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithTracer sets the tracer used for run and attempt spans.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.tracer = t
		}
	}
}

// WithStateHook observes every transition. The hook runs on the pipeline
// goroutine and must not block.
func WithStateHook(hook func(Transition)) Option {
	return func(p *Pipeline) {
		p.hook = hook
	}
}

// Pipeline is safe for concurrent use; each run owns its RetryState.
type Pipeline struct {
	sender      Sender
	maxAttempts int
	baseDelay   time.Duration
	sleep       Sleeper
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	hook        func(Transition)
}

// New creates a pipeline around sender.
func New(sender Sender, opts ...Option) *Pipeline {
	if sender == nil {
		panic("pipeline: sender cannot be nil")
	}
	p := &Pipeline{
		sender:      sender,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       time.Sleep,
		logger:      logging.WithComponent("pipeline"),
		tracer:      telemetry.Tracer(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Start runs the pipeline on its own goroutine. The channel yields exactly
// one Outcome and is then closed.
func (p *Pipeline) Start(ctx context.Context, payload *gemini.Payload) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		res, err := p.Run(ctx, payload)
		out <- Outcome{Result: res, Err: err}
	}()
	return out
}

// Run sends payload until it yields a result or the retries run out.
// Runs are not cancellable: ctx contributes values (trace spans) but its
// cancellation is ignored, and every scheduled retry happens.
func (p *Pipeline) Run(ctx context.Context, payload *gemini.Payload) (res *generation.Result, err error) {
	if payload == nil {
		return nil, fmt.Errorf("pipeline: payload cannot be nil")
	}
	ctx = context.WithoutCancel(ctx)
	ctx, span := p.tracer.Start(ctx, "pipeline.Run")
	started := time.Now()
	defer func() {
		p.metrics.ObserveGeneration(err, time.Since(started))
		telemetry.End(span, err)
	}()

	state := RetryState{MaxAttempts: p.maxAttempts, BaseDelay: p.baseDelay}
	schedule := p.newSchedule()
	current := StateIdle

	for {
		p.transition(&current, StateSending, state, 0, nil)
		result, attemptErr := p.attempt(ctx, payload, state)
		if attemptErr == nil {
			span.SetAttributes(attribute.Int("uigen.attempts", state.Attempt+1))
			p.transition(&current, StateSuccess, state, 0, nil)
			return result, nil
		}

		if state.Exhausted() {
			err = &errorskg.RetriesExhaustedError{Attempts: state.Attempt + 1, Last: attemptErr}
			span.SetAttributes(attribute.Int("uigen.attempts", state.Attempt+1))
			p.logger.Error("failed to fetch after multiple retries",
				"attempts", state.Attempt+1,
				"error", attemptErr,
			)
			p.transition(&current, StateFailed, state, 0, err)
			return nil, err
		}

		delay := schedule.NextBackOff()
		p.logger.Warn("retrying API call",
			"attempt", state.Attempt+1,
			"delay", delay,
			"error", attemptErr,
		)
		p.metrics.ObserveRetry()
		p.transition(&current, StateRetryWaiting, state, delay, attemptErr)
		p.sleep(delay)
		state.Attempt++
	}
}

// newSchedule yields BaseDelay, 2*BaseDelay, 4*BaseDelay, ... without jitter.
func (p *Pipeline) newSchedule() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.baseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         RetryState{Attempt: p.maxAttempts, BaseDelay: p.baseDelay}.Delay(),
	}
	b.Reset()
	return b
}

func (p *Pipeline) attempt(ctx context.Context, payload *gemini.Payload, state RetryState) (res *generation.Result, err error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.attempt",
		trace.WithAttributes(attribute.Int("uigen.attempt", state.Attempt+1)),
	)
	defer func() {
		p.metrics.ObserveAttempt(err)
		telemetry.End(span, err)
	}()

	env, err := p.sender.Send(ctx, payload)
	if err != nil {
		return nil, err
	}
	return generation.ParseEnvelope(env)
}

func (p *Pipeline) transition(current *State, to State, retry RetryState, delay time.Duration, err error) {
	from := *current
	*current = to
	p.logger.Debug("pipeline state", "from", from.String(), "to", to.String(), "attempt", retry.Attempt+1)
	if p.hook != nil {
		p.hook(Transition{From: from, To: to, Retry: retry, Delay: delay, Err: err})
	}
}
