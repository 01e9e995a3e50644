package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/pipeline"
	"github.com/specialistvlad/toolpipe/internal/registry"
)

// Engine executes pipelines against a tool registry. It is stateless across
// runs; per-run state lives in a context created inside Run.
type Engine struct {
	registry *registry.Registry
}

// New returns an Engine backed by the given registry.
func New(reg *registry.Registry) *Engine {
	return &Engine{registry: reg}
}

// Options customize a single run. All fields are optional.
type Options struct {
	// OnProgress receives a human-oriented update as each step starts and a
	// final one when the run completes.
	OnProgress func(Progress)
	// OnStateChange receives lifecycle transitions: pending, running(step),
	// then completed or failed(step).
	OnStateChange func(State)
	// Clock supplies the time used for step durations. Defaults to time.Now.
	Clock func() time.Time
}

// StepResult records one executed step's outcome.
type StepResult struct {
	ToolID     string `json:"toolId"`
	Output     any    `json:"output"`
	DurationMs int64  `json:"durationMs"`
}

// Result is a whole-run success: one StepResult per step, in step order.
// Failed runs return an error instead; there is no partial Result.
type Result struct {
	Steps           []StepResult `json:"steps"`
	TotalDurationMs int64        `json:"totalDurationMs"`
}

// run is the state shared by one invocation's step loop.
type run struct {
	engine *Engine
	opts   Options
	clock  func() time.Time
	rc     *runContext
	total  int
}

// Run executes every step of p in order, aborting on the first failure. The
// context is checked between steps and passed into each tool invocation; a
// tool is responsible for honoring cancellation mid-flight.
func (e *Engine) Run(ctx context.Context, p *pipeline.Pipeline, opts Options) (*Result, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := ctxlog.FromContext(ctx).With("run", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)

	total := len(p.Steps)
	logger.Info("▶️ Starting pipeline run.", "steps", total)
	emitState(logger, opts.OnStateChange, State{Phase: PhasePending, Step: -1})

	r := &run{
		engine: e,
		opts:   opts,
		clock:  clock,
		rc:     newRunContext(total),
		total:  total,
	}
	result := &Result{Steps: make([]StepResult, 0, total)}
	start := clock()

	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			emitState(logger, opts.OnStateChange, State{Phase: PhaseFailed, Step: i})
			logger.Warn("Run cancelled between steps.", "step", i)
			return nil, fmt.Errorf("%w before step %d: %w", ErrRunCancelled, i, err)
		}
		emitState(logger, opts.OnStateChange, State{Phase: PhaseRunning, Step: i})

		res, err := r.runStep(ctx, i, step)
		if err != nil {
			emitState(logger, opts.OnStateChange, State{Phase: PhaseFailed, Step: i})
			logger.Error("Step execution failed.", "step", i, "error", err)
			return nil, err
		}
		r.rc.record(step.ToolID, res.Output)
		result.Steps = append(result.Steps, res)
	}

	result.TotalDurationMs = clock().Sub(start).Milliseconds()
	emitProgress(logger, opts.OnProgress, Progress{Message: "Pipeline complete", Percent: 100})
	emitState(logger, opts.OnStateChange, State{Phase: PhaseCompleted, Step: -1})
	logger.Info("✅ Pipeline run complete.", "steps", total, "duration_ms", result.TotalDurationMs)
	return result, nil
}
