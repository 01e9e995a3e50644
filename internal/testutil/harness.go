package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/engine"
	"github.com/specialistvlad/toolpipe/internal/pipeline"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// HarnessResult holds everything a pipeline run produced: the result or
// error, every emitted progress and state event, and the debug log output.
type HarnessResult struct {
	Result    *engine.Result
	Err       error
	Progress  []engine.Progress
	States    []engine.State
	LogOutput string
}

// LastState returns the final state transition of the run.
func (r *HarnessResult) LastState() engine.State {
	if len(r.States) == 0 {
		return engine.State{}
	}
	return r.States[len(r.States)-1]
}

// RunPipeline decodes pipelineJSON, validates it, and executes it against a
// registry holding exactly the given tools, using a background context.
func RunPipeline(t *testing.T, pipelineJSON string, defs ...*tool.Definition) *HarnessResult {
	t.Helper()
	return RunPipelineWithContext(context.Background(), t, pipelineJSON, defs...)
}

// RunPipelineWithContext is RunPipeline with a caller-provided context, for
// cancellation tests.
func RunPipelineWithContext(ctx context.Context, t *testing.T, pipelineJSON string, defs ...*tool.Definition) *HarnessResult {
	t.Helper()

	def, err := pipeline.Decode([]byte(pipelineJSON))
	require.NoError(t, err, "harness pipeline JSON must decode")
	require.NoError(t, def.Validate(), "harness pipeline must be structurally valid")

	reg := Registry(t, defs...)

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx = ctxlog.WithLogger(ctx, logger)

	res := &HarnessResult{}
	result, runErr := engine.New(reg).Run(ctx, def, engine.Options{
		OnProgress: func(p engine.Progress) {
			res.Progress = append(res.Progress, p)
		},
		OnStateChange: func(s engine.State) {
			res.States = append(res.States, s)
		},
	})
	res.Result = result
	res.Err = runErr
	res.LogOutput = logBuffer.String()

	if os.Getenv("TOOLPIPE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), res.LogOutput)
	}
	return res
}
