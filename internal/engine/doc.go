// Package engine runs pipelines: it walks the step list in order, resolves
// each step's input against everything recorded so far, and invokes the
// step's tool through the registry.
//
// Execution is strictly sequential. A step's expressions may reference any
// earlier step by absolute index, so the linearized step list is effectively
// a straight dependency line; running steps in parallel would require
// rewriting those indices against a computed partial order, which this
// package deliberately does not attempt. The only suspension point in a run
// is awaiting the current tool invocation.
//
// Failure is fail-fast and whole-run: the first problem (missing tool,
// invalid input, or a tool error) aborts the run with a typed error carrying
// the step index and tool id, and no later step's tool is invoked.
package engine
