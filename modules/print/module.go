package print

import (
	"context"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ID is the tool id this module registers.
const ID = "print"

func onRun(ctx context.Context, input map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx)

	// Sort keys for consistent output.
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		logger.Info("print", "key", k, "value", input[k])
	}

	return map[string]any{"printed": len(keys)}, nil
}

// Register registers the tool definition with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(&tool.Definition{
		ID:          ID,
		Name:        "Print",
		Description: "Logs every input key and value, sorted by key.",
		Category:    "utility",
		Outputs: tool.Shape{
			{Key: "printed", Type: cty.Number},
		},
		Run: onRun,
	})
}
