package env_vars

import (
	"context"
	"fmt"
	"os"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ID is the tool id this module registers.
const ID = "env-vars"

// onRun reads only the requested variables. Unset variables are omitted from
// the result rather than returned empty.
func onRun(_ context.Context, input map[string]any) (any, error) {
	args := tool.Args(input)

	names, ok := args.StringSlice("names")
	if !ok {
		return nil, fmt.Errorf("input 'names' must be a list of strings")
	}

	values := make(map[string]any, len(names))
	for _, name := range names {
		if v, set := os.LookupEnv(name); set {
			values[name] = v
		}
	}

	return map[string]any{"values": values}, nil
}

// Register registers the tool definition with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(&tool.Definition{
		ID:          ID,
		Name:        "Environment Variables",
		Description: "Reads an allow-listed set of environment variables.",
		Category:    "system",
		Inputs: tool.Shape{
			{Key: "names", Type: cty.List(cty.String), Required: true, Description: "Names of the variables to read."},
		},
		Outputs: tool.Shape{
			{Key: "values", Type: cty.Map(cty.String)},
		},
		Run: onRun,
	})
}
