package runner

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sweetpotato0/ai-uigen/contrib/provider/gemini"
	errorskg "github.com/sweetpotato0/ai-uigen/errors"
	"github.com/sweetpotato0/ai-uigen/generation"
	"github.com/sweetpotato0/ai-uigen/pkg/logging"
	"github.com/sweetpotato0/ai-uigen/pkg/metrics"
)

// User-facing messages.
const (
	MessageEmptyPrompt     = "Please enter a description."
	MessageTerminalFailure = "Failed to generate code. Please try again."
)

// Executor runs one payload to a terminal outcome.
type Executor interface {
	Run(ctx context.Context, payload *gemini.Payload) (*generation.Result, error)
}

// Presenter receives exactly one callback per accepted trigger.
type Presenter interface {
	OnValidationError(message string)
	OnResult(result *generation.Result)
	OnTerminalFailure(message string)
}

// PresenterFuncs adapts plain functions to Presenter. Nil fields are skipped.
type PresenterFuncs struct {
	ValidationError func(message string)
	Result          func(result *generation.Result)
	TerminalFailure func(message string)
}

// OnValidationError calls ValidationError.
func (p PresenterFuncs) OnValidationError(message string) {
	if p.ValidationError != nil {
		p.ValidationError(message)
	}
}

// OnResult calls Result.
func (p PresenterFuncs) OnResult(result *generation.Result) {
	if p.Result != nil {
		p.Result(result)
	}
}

// OnTerminalFailure calls TerminalFailure.
func (p PresenterFuncs) OnTerminalFailure(message string) {
	if p.TerminalFailure != nil {
		p.TerminalFailure(message)
	}
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics tracks validation errors and the in-flight gauge.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// Runner is the trigger side of a generator: it validates the prompt, runs
// the pipeline and reports to a presenter. One generation runs at a time.
type Runner struct {
	executor  Executor
	semaphore chan struct{}
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates a runner around executor.
func New(executor Executor, opts ...Option) *Runner {
	if executor == nil {
		panic("runner: executor cannot be nil")
	}
	r := &Runner{
		executor:  executor,
		semaphore: make(chan struct{}, 1),
		logger:    logging.WithComponent("runner"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Busy reports whether a generation is in flight.
func (r *Runner) Busy() bool {
	return len(r.semaphore) > 0
}

// Trigger starts a generation for promptText and blocks until its terminal
// outcome. It returns ErrBusy without calling the presenter when another
// generation is running; otherwise it calls exactly one presenter method
// and returns the same outcome as an error (nil on success).
func (r *Runner) Trigger(ctx context.Context, promptText string, presenter Presenter) error {
	if presenter == nil {
		presenter = PresenterFuncs{}
	}

	select {
	case r.semaphore <- struct{}{}:
	default:
		return errorskg.ErrBusy
	}
	logger := r.logger.With("generation_id", uuid.NewString())
	r.metrics.SetInFlight(true)
	defer func() {
		r.metrics.SetInFlight(false)
		<-r.semaphore
	}()

	payload, err := generation.Build(promptText)
	if err != nil {
		if errors.Is(err, errorskg.ErrEmptyPrompt) {
			r.metrics.ObserveValidationError()
			presenter.OnValidationError(MessageEmptyPrompt)
			return err
		}
		logger.Error("failed to build request", "error", err)
		presenter.OnTerminalFailure(MessageTerminalFailure)
		return err
	}

	logger.Debug("generation started")
	result, err := r.executor.Run(ctx, payload)
	if err != nil {
		logger.Error("generation failed", "error", err)
		presenter.OnTerminalFailure(MessageTerminalFailure)
		return err
	}

	logger.Info("generation completed",
		"code_bytes", len(result.Code),
		"suggestions", len(result.AccessibilitySuggestions),
	)
	presenter.OnResult(result)
	return nil
}

// Generate is Trigger for callers that want the result as a return value.
func (r *Runner) Generate(ctx context.Context, promptText string) (*generation.Result, error) {
	var result *generation.Result
	err := r.Trigger(ctx, promptText, PresenterFuncs{
		Result: func(res *generation.Result) { result = res },
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
