package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt and generation outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics groups the generation pipeline collectors.
type Metrics struct {
	Attempts    *prometheus.CounterVec
	Retries     prometheus.Counter
	Generations *prometheus.CounterVec
	Duration    prometheus.Histogram
	InFlight    prometheus.Gauge
	Validations prometheus.Counter
}

// New registers the collectors on reg. A nil reg creates a private registry,
// which keeps tests isolated from the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uigen_generation_attempts_total",
				Help: "Total number of generateContent attempts by outcome",
			},
			[]string{"outcome"},
		),
		Retries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "uigen_generation_retries_total",
				Help: "Total number of scheduled backoff retries",
			},
		),
		Generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uigen_generations_total",
				Help: "Total number of pipeline runs by terminal outcome",
			},
			[]string{"outcome"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uigen_generation_duration_seconds",
				Help:    "Wall time from trigger to terminal outcome, retries included",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
			},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "uigen_generation_in_flight",
				Help: "1 while a generation is running",
			},
		),
		Validations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "uigen_prompt_validation_errors_total",
				Help: "Total number of triggers rejected for an empty prompt",
			},
		),
	}
}

// ObserveAttempt counts one attempt.
func (m *Metrics) ObserveAttempt(err error) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome(err)).Inc()
}

// ObserveRetry counts one scheduled retry.
func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}

// ObserveGeneration records a terminal outcome and its duration.
func (m *Metrics) ObserveGeneration(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(outcome(err)).Inc()
	m.Duration.Observe(elapsed.Seconds())
}

// ObserveValidationError counts a rejected prompt.
func (m *Metrics) ObserveValidationError() {
	if m == nil {
		return
	}
	m.Validations.Inc()
}

// SetInFlight flips the in-flight gauge.
func (m *Metrics) SetInFlight(active bool) {
	if m == nil {
		return
	}
	if active {
		m.InFlight.Set(1)
		return
	}
	m.InFlight.Set(0)
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
