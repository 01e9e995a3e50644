package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/manifest"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// ValidateAgainst performs a strict parity check between manifest
// declarations and the Go-registered tools. It checks presence in both
// directions, then per-key shape parity: every declared input/output must
// exist on the registered tool with the same type and required flag, and
// vice versa.
func (r *Registry) ValidateAgainst(ctx context.Context, decls []manifest.Decl) error {
	logger := ctxlog.FromContext(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []string

	declared := make(map[string]manifest.Decl, len(decls))
	for _, decl := range decls {
		declared[decl.ID] = decl
	}

	for id := range declared {
		if _, ok := r.tools[id]; !ok {
			errs = append(errs, fmt.Sprintf("tool '%s': declared in a manifest but not registered in Go", id))
		}
	}
	for id := range r.tools {
		if _, ok := declared[id]; !ok {
			errs = append(errs, fmt.Sprintf("tool '%s': registered in Go but not declared in any manifest", id))
		}
	}

	for id, decl := range declared {
		def, ok := r.tools[id]
		if !ok {
			continue
		}
		errs = append(errs, compareShapes(logger, id, "input", decl.Inputs, def.Inputs)...)
		errs = append(errs, compareShapes(logger, id, "output", decl.Outputs, def.Outputs)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

type shapeLogger interface {
	Debug(msg string, args ...any)
}

// compareShapes reports every way the declared and registered shapes for one
// tool disagree. kind is "input" or "output" for message wording.
func compareShapes(logger shapeLogger, id, kind string, declared, registered tool.Shape) []string {
	var errs []string

	for _, field := range registered {
		if _, ok := declared.Field(field.Key); !ok {
			errs = append(errs, fmt.Sprintf("tool '%s': Go registers %s '%s' which is not declared in the manifest", id, kind, field.Key))
		}
	}

	for _, field := range declared {
		got, ok := registered.Field(field.Key)
		if !ok {
			errs = append(errs, fmt.Sprintf("tool '%s': manifest declares %s '%s' which is not registered in Go", id, kind, field.Key))
			continue
		}

		if field.Required != got.Required {
			errs = append(errs, fmt.Sprintf("tool '%s', %s '%s': required flag mismatch (manifest %t, Go %t)", id, kind, field.Key, field.Required, got.Required))
		}

		if field.Type.Equals(cty.DynamicPseudoType) {
			logger.Debug("Manifest declares 'type = any', skipping static type check.", "tool", id, kind, field.Key)
			continue
		}
		if !field.Type.Equals(got.Type) {
			errs = append(errs, fmt.Sprintf("tool '%s', %s '%s': type mismatch. Manifest requires '%s' but Go registers '%s'",
				id, kind, field.Key, field.Type.FriendlyName(), got.Type.FriendlyName()))
		}
	}

	return errs
}
