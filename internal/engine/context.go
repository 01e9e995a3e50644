package engine

import (
	"github.com/specialistvlad/toolpipe/internal/expr"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// runContext accumulates everything later steps can reference: one recorded
// output per executed step (index = step index) and the named variables. A
// fresh runContext is created inside every Run and never shared.
type runContext struct {
	outputs   []any
	variables map[string]any
}

func newRunContext(steps int) *runContext {
	return &runContext{
		outputs:   make([]any, 0, steps),
		variables: make(map[string]any),
	}
}

func (rc *runContext) exprContext() *expr.Context {
	return &expr.Context{Outputs: rc.outputs, Variables: rc.variables}
}

// record appends a step's output. When the step ran the designated variable
// setter, the {name, value} pair from its output is captured as a variable;
// later writes to the same name win.
func (rc *runContext) record(toolID string, output any) {
	rc.outputs = append(rc.outputs, output)

	if toolID != tool.SetVariableID {
		return
	}
	m, ok := output.(map[string]any)
	if !ok {
		return
	}
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return
	}
	rc.variables[name] = m["value"]
}
