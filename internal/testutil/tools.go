package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Tool builds a minimal tool definition with no declared shapes: any input
// passes validation.
func Tool(id string, run tool.Func) *tool.Definition {
	return &tool.Definition{ID: id, Run: run}
}

// TypedTool builds a tool definition with declared input and output shapes.
func TypedTool(id string, inputs, outputs tool.Shape, run tool.Func) *tool.Definition {
	return &tool.Definition{ID: id, Inputs: inputs, Outputs: outputs, Run: run}
}

// EchoTool returns its resolved input unchanged, the simplest way to make a
// step's output observable downstream.
func EchoTool(id string) *tool.Definition {
	return Tool(id, func(_ context.Context, input map[string]any) (any, error) {
		return input, nil
	})
}

// FailingTool always returns err.
func FailingTool(id string, err error) *tool.Definition {
	return Tool(id, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, err
	})
}

// Calls records every invocation a RecordingTool sees.
type Calls struct {
	mu     sync.Mutex
	inputs []map[string]any
}

// Count returns how many times the tool ran.
func (c *Calls) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inputs)
}

// Input returns the resolved input of the i-th invocation.
func (c *Calls) Input(i int) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputs[i]
}

// RecordingTool behaves like EchoTool but also records each resolved input
// it was invoked with.
func RecordingTool(id string) (*tool.Definition, *Calls) {
	calls := &Calls{}
	def := Tool(id, func(_ context.Context, input map[string]any) (any, error) {
		calls.mu.Lock()
		calls.inputs = append(calls.inputs, input)
		calls.mu.Unlock()
		return input, nil
	})
	return def, calls
}

// Registry builds a registry holding the given definitions, failing the test
// on any registration error.
func Registry(t *testing.T, defs ...*tool.Definition) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, def := range defs {
		require.NoError(t, reg.Register(def))
	}
	return reg
}
