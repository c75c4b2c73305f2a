package main

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sweetpotato0/ai-uigen/config"
	"github.com/sweetpotato0/ai-uigen/contrib/provider/gemini"
	"github.com/sweetpotato0/ai-uigen/pipeline"
	"github.com/sweetpotato0/ai-uigen/pkg/logging"
	"github.com/sweetpotato0/ai-uigen/pkg/metrics"
	"github.com/sweetpotato0/ai-uigen/pkg/telemetry"
	"github.com/sweetpotato0/ai-uigen/runner"
)

// app holds the wired generator shared by every subcommand.
type app struct {
	cfg      *config.Config
	registry *prometheus.Registry
	runner   *runner.Runner
	shutdown func(context.Context) error
}

// newApp loads configuration and wires the generator. traceWriter receives
// spans when no OTLP endpoint is configured; nil means stderr.
func newApp(ctx context.Context, configPath string, traceWriter io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Writer:         traceWriter,
		Disable:        cfg.Telemetry.Disable,
	})
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	provider := gemini.New(cfg.Gemini.GeminiProviderConfig())
	p := pipeline.New(provider,
		pipeline.WithMaxAttempts(cfg.Retry.MaxAttempts),
		pipeline.WithBaseDelay(cfg.Retry.BaseDelay),
		pipeline.WithMetrics(m),
	)

	logging.Logger().Debug("generator configured",
		"model", provider.Model(),
		"endpoint", provider.Endpoint(),
		"max_attempts", cfg.Retry.MaxAttempts,
		"base_delay", cfg.Retry.BaseDelay,
	)

	return &app{
		cfg:      cfg,
		registry: registry,
		runner:   runner.New(p, runner.WithMetrics(m)),
		shutdown: shutdown,
	}, nil
}

// Close flushes telemetry.
func (a *app) Close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	return a.shutdown(ctx)
}
