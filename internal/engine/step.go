package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/expr"
	"github.com/specialistvlad/toolpipe/internal/pipeline"
)

// runStep takes one step from raw input to recorded output. Failures carry
// the step index and tool id so callers can attribute them to a node.
func (r *run) runStep(ctx context.Context, i int, step pipeline.Step) (StepResult, error) {
	logger := ctxlog.FromContext(ctx).With("step", i, "tool", step.ToolID)
	logger.Info("▶️ Starting step instance")

	input := expr.ResolveInput(step.Input, r.rc.exprContext())
	r.applyLegacyMapping(input, step.LegacyMapping)
	logger.Debug("Step input resolved.", "input", input)

	def, registered := r.engine.registry.Get(step.ToolID)
	name := step.ToolID
	if registered {
		name = def.DisplayName()
	}
	emitProgress(logger, r.opts.OnProgress, Progress{
		Message: fmt.Sprintf("Step %d/%d: %s", i+1, r.total, name),
		Percent: percent(i, r.total),
	})

	// A bypassed step passes its resolved input straight through as its
	// output without invoking the tool, so the tool need not even exist.
	if step.Bypass {
		start := r.clock()
		logger.Info("⏭️ Bypassing step, passing input through.")
		return StepResult{
			ToolID:     step.ToolID,
			Output:     input,
			DurationMs: r.clock().Sub(start).Milliseconds(),
		}, nil
	}

	if !registered {
		return StepResult{}, &ToolNotFound{Step: i, ToolID: step.ToolID}
	}
	if details := def.Inputs.Validate(input); len(details) > 0 {
		return StepResult{}, &StepInputInvalid{Step: i, ToolID: step.ToolID, Details: details}
	}

	start := r.clock()
	output, err := def.Run(ctx, input)
	duration := r.clock().Sub(start)
	if err != nil {
		return StepResult{}, &StepExecutionFailed{Step: i, ToolID: step.ToolID, Err: err}
	}

	logger.Info("✅ Finished step instance", "duration_ms", duration.Milliseconds())
	return StepResult{
		ToolID:     step.ToolID,
		Output:     output,
		DurationMs: duration.Milliseconds(),
	}, nil
}

// applyLegacyMapping overlays index-based connections on top of the resolved
// input. Keys are applied in sorted order for deterministic logs; a mapping
// whose source resolves to absent removes the key, matching how an absent
// expression omits its map entry.
func (r *run) applyLegacyMapping(input map[string]any, mapping map[string]pipeline.Mapping) {
	if len(mapping) == 0 {
		return
	}
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rctx := r.rc.exprContext()
	for _, key := range keys {
		m := mapping[key]
		ref := expr.Ref{Kind: expr.RefStepOutput, Step: m.FromStep}
		if m.Field != "" {
			ref.Path = strings.Split(m.Field, ".")
		}
		v, ok := rctx.Lookup(ref)
		if !ok {
			delete(input, key)
			continue
		}
		input[key] = v
	}
}

// percent reports how far along the run is before step i begins.
func percent(i, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(i) / float64(total) * 100))
}
