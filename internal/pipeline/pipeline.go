package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/quotescrape/internal/model"
)

// Step is one stage of a scrape.
type Step interface {
	// Do runs the stage against run. An error ends the pipeline.
	Do(ctx context.Context, run *model.Run) error

	// Name identifies the step in logs and in Run.PerformedSteps.
	Name() string
}

// Pipeline runs its steps one after another and stops at the first failure.
// Later steps never run once an earlier one failed.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. nil means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New returns a Pipeline with no steps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0, 4)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against run. The context is checked before each
// step. The failing error is stored on run and returned; the names of the
// steps that completed are appended to run.PerformedSteps.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	for i, step := range p.steps {
		logger := p.logger.With("step", step.Name(), "index", i+1, "of", len(p.steps))

		if err := ctx.Err(); err != nil {
			logger.Warn("pipeline cancelled before step", "reason", err)
			return p.fail(run, err)
		}

		logger.Info("running step", "listing_url", run.ListingURL)
		if err := step.Do(ctx, run); err != nil {
			logger.Error("step failed", "error", err)
			return p.fail(run, err)
		}

		logger.Debug("step done")
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}
	return nil
}

func (p *Pipeline) fail(run *model.Run, err error) error {
	run.Error = err
	run.ErrorMessage = err.Error()
	return err
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
