package app

import (
	"context"
	"fmt"

	"github.com/vk/trellisbatch/internal/batch"
	"github.com/vk/trellisbatch/internal/ctxlog"
)

// Run executes the batch job and returns its report.
func (a *App) Run(ctx context.Context) (*batch.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	driver, err := batch.NewDriver(a.job, a.pipe, batch.Options{
		Workers: a.config.WorkerCount,
		DryRun:  a.config.DryRun,
		Metrics: a.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create batch driver: %w", err)
	}

	a.logger.Info("🚀 Starting batch generation...", "job", a.config.JobPath)
	report, err := driver.Run(ctx)
	if report != nil {
		a.logger.Info("🏁 Batch finished.",
			"identifiers", report.Identifiers,
			"planned", report.Planned,
			"skipped", report.Skipped,
			"generated", report.Generated,
			"failed", report.Failed,
		)
	}
	if err != nil {
		return report, fmt.Errorf("batch failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return report, nil
}
