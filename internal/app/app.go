package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vk/trellisbatch/internal/batch"
	"github.com/vk/trellisbatch/internal/config"
	"github.com/vk/trellisbatch/internal/ctxlog"
	"github.com/vk/trellisbatch/internal/pipeline"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	job        *config.Job
	pipe       pipeline.Pipeline
	registry   *prometheus.Registry
	metrics    *batch.Metrics
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the job
// file through loader and returns a fully initialized App with its own
// isolated logger and metrics registry. When pipe is nil an HTTP pipeline
// client is built from the job's pipeline block.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, pipe pipeline.Pipeline) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	job, err := loader.Load(ctx, cfg.JobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	logger.Debug("Job loaded.", "path", cfg.JobPath)

	if pipe == nil && !cfg.DryRun {
		client, err := pipeline.NewHTTPClient(pipeline.HTTPConfig{
			Endpoint:    job.Pipeline.Endpoint,
			Timeout:     job.Pipeline.Timeout,
			AttnBackend: job.Pipeline.AttnBackend,
			SpconvAlgo:  job.Pipeline.SpconvAlgo,
			Simplify:    job.Pipeline.Simplify,
			TextureSize: job.Pipeline.TextureSize,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create pipeline client: %w", err)
		}
		pipe = client
		logger.Debug("Pipeline client created.", "endpoint", job.Pipeline.Endpoint)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		job:      job,
		pipe:     pipe,
		registry: reg,
		metrics:  batch.NewMetrics(reg),
	}, nil
}

// Job returns the loaded job. This is primarily for testing.
func (a *App) Job() *config.Job {
	return a.job
}

// Registry returns the application's metrics registry.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}
