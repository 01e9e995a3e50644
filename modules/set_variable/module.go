package set_variable

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// onRun stores nothing itself: it echoes {name, value} and the engine picks
// the pair up because of the tool's designated id.
func onRun(ctx context.Context, input map[string]any) (any, error) {
	args := tool.Args(input)

	name, ok := args.String("name")
	if !ok || name == "" {
		return nil, fmt.Errorf("input 'name' must be a non-empty string")
	}
	value := input["value"]

	ctxlog.FromContext(ctx).Debug("Setting variable.", "name", name)

	return map[string]any{
		"name":  name,
		"value": value,
	}, nil
}

// Register registers the tool definition with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(&tool.Definition{
		ID:          tool.SetVariableID,
		Name:        "Set Variable",
		Description: "Stores a named value for later steps to read as a variable.",
		Category:    "variables",
		Inputs: tool.Shape{
			{Key: "name", Type: cty.String, Required: true, Description: "Variable name."},
			{Key: "value", Type: cty.DynamicPseudoType, Description: "Value to store. May be any JSON value, including null."},
		},
		Outputs: tool.Shape{
			{Key: "name", Type: cty.String},
			{Key: "value", Type: cty.DynamicPseudoType},
		},
		Run: onRun,
	})
}
