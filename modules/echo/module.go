package echo

import (
	"context"

	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ID is the tool id this module registers.
const ID = "echo"

// onRun returns the input untouched, which makes echo the simplest possible
// producer of structured output for downstream steps.
func onRun(_ context.Context, input map[string]any) (any, error) {
	return input, nil
}

// Register registers the tool definition with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(&tool.Definition{
		ID:          ID,
		Name:        "Echo",
		Description: "Returns its input unchanged. No shape is declared: any keys pass through.",
		Category:    "utility",
		Run:         onRun,
	})
}
