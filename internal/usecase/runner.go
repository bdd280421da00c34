package usecase

import (
	"context"
	"log/slog"
	"time"

	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/ports"
)

// Runner iterates the titles lacking images, invokes the pipeline once per
// title in the given order, and routes every outcome into the sink. A fixed
// delay between titles paces requests against the external site.
type Runner struct {
	pipeline *Pipeline
	sink     ports.OutcomeSink
	delay    time.Duration
	logger   *slog.Logger
}

// NewRunner builds the batch driver.
func NewRunner(pipeline *Pipeline, sink ports.OutcomeSink, delay time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		pipeline: pipeline,
		sink:     sink,
		delay:    delay,
		logger:   logger,
	}
}

// Run processes each title exactly once. Failed titles are not retried within
// the run; a rerun re-queries titles still missing an image, which makes the
// whole batch idempotent.
func (r *Runner) Run(ctx context.Context, titles []string) {
	total := len(titles)
	for i, title := range titles {
		r.logger.Info("processing recipe", "index", i+1, "total", total, "title", title)

		outcome := r.pipeline.Process(ctx, title)
		r.sink.Record(title, outcome)

		switch outcome.Kind {
		case domain.OutcomeFound:
			r.logger.Info("image assigned", "title", title, "url", outcome.URL)
		case domain.OutcomeNotFound:
			r.logger.Info("no image found", "title", title)
		default:
			r.logger.Warn("recipe errored", "title", title, "reason", outcome.Reason)
		}

		if i < total-1 && !sleepCtx(ctx, r.delay) {
			r.logger.Warn("run cancelled", "processed", i+1, "total", total)
			return
		}
	}
}

// sleepCtx pauses for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
