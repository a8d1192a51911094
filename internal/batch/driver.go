package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/vk/trellisbatch/internal/config"
	"github.com/vk/trellisbatch/internal/ctxlog"
	"github.com/vk/trellisbatch/internal/fsutil"
	"github.com/vk/trellisbatch/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

// Options tunes a Driver.
type Options struct {
	Workers int  // concurrent tasks; values below 1 mean 1
	DryRun  bool // plan and log without calling the pipeline
	Metrics *Metrics
}

// Report summarises a run.
type Report struct {
	Identifiers int
	Planned     int
	Skipped     int
	Generated   int
	Failed      int
}

// Driver executes a job against a pipeline.
type Driver struct {
	job     *config.Job
	pipe    pipeline.Pipeline
	opts    Options
	workers int
}

// NewDriver creates a Driver. pipe may be nil only for dry runs.
func NewDriver(job *config.Job, pipe pipeline.Pipeline, opts Options) (*Driver, error) {
	if pipe == nil && !opts.DryRun {
		return nil, fmt.Errorf("a pipeline is required unless running dry")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Driver{job: job, pipe: pipe, opts: opts, workers: workers}, nil
}

// Run resolves, plans and executes the job. The report is returned even
// when the run fails part-way.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{}

	ids, err := ResolveUIDs(ctx, d.job)
	if err != nil {
		return report, err
	}
	report.Identifiers = len(ids)

	tasks, err := Plan(ctx, d.job, ids)
	if err != nil {
		return report, err
	}
	report.Planned = len(tasks)
	logger.Info("Batch planned.", "identifiers", len(ids), "tasks", len(tasks), "workers", d.workers, "dry_run", d.opts.DryRun)

	var skipped, generated, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for _, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		if fsutil.IsRegularFile(task.OutputPath) {
			logger.Debug("Skipping existing output.", "path", task.OutputPath)
			skipped.Add(1)
			d.opts.Metrics.observe(ResultSkipped)
			continue
		}
		if d.opts.DryRun {
			logger.Info("Would generate.", "uid", task.UID.Total(), "camera", task.Camera, "keyframe", task.Keyframe, "image", task.ImagePath, "output", task.OutputPath)
			continue
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if err := d.execute(gctx, task); err != nil {
				failed.Add(1)
				d.opts.Metrics.observe(ResultFailed)
				return err
			}
			generated.Add(1)
			d.opts.Metrics.observe(ResultGenerated)
			return nil
		})
	}

	err = g.Wait()
	report.Skipped = int(skipped.Load())
	report.Generated = int(generated.Load())
	report.Failed = int(failed.Load())
	if err == nil {
		err = ctx.Err()
	}
	return report, err
}

// execute runs and exports a single task.
func (d *Driver) execute(ctx context.Context, task Task) error {
	ctx = ctxlog.With(ctx, "uid", task.UID.Total(), "camera", task.Camera, "keyframe", task.Keyframe)
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	image, err := pipeline.LoadImage(task.ImagePath)
	if err != nil {
		return fmt.Errorf("task %s/%s/%d: %w", task.UID, task.Camera, task.Keyframe, err)
	}

	if err := os.MkdirAll(filepath.Dir(task.OutputPath), 0o755); err != nil {
		return fmt.Errorf("task %s/%s/%d: failed to create output directory: %w", task.UID, task.Camera, task.Keyframe, err)
	}

	out, err := d.pipe.Run(ctx, image, d.job.Seed)
	if err != nil {
		return fmt.Errorf("task %s/%s/%d: pipeline run: %w", task.UID, task.Camera, task.Keyframe, err)
	}
	if err := d.pipe.Export(ctx, out, task.OutputPath); err != nil {
		return fmt.Errorf("task %s/%s/%d: export: %w", task.UID, task.Camera, task.Keyframe, err)
	}

	elapsed := time.Since(start)
	if d.opts.Metrics != nil {
		d.opts.Metrics.Duration.Observe(elapsed.Seconds())
	}
	logger.Info("Generated asset.", "output", task.OutputPath, "duration", elapsed)
	return nil
}
