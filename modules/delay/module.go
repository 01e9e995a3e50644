package delay

import (
	"context"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ID is the tool id this module registers.
const ID = "delay"

func onRun(ctx context.Context, input map[string]any) (any, error) {
	args := tool.Args(input)

	ms, ok := args.Number("ms")
	if !ok {
		return nil, fmt.Errorf("input 'ms' must be a number")
	}
	if ms < 0 {
		return nil, fmt.Errorf("input 'ms' must not be negative, got %v", ms)
	}

	ctxlog.FromContext(ctx).Debug("Delaying.", "ms", ms)

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return map[string]any{"ms": ms}, nil
}

// Register registers the tool definition with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(&tool.Definition{
		ID:          ID,
		Name:        "Delay",
		Description: "Waits the given number of milliseconds before continuing.",
		Category:    "utility",
		Inputs: tool.Shape{
			{Key: "ms", Type: cty.Number, Required: true, Description: "Milliseconds to wait."},
		},
		Outputs: tool.Shape{
			{Key: "ms", Type: cty.Number},
		},
		Run: onRun,
	})
}
