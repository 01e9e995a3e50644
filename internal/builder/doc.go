/*
Package builder converts between the two faces of a pipeline: the editor's
dependency graph (nodes, ports, edges) and the executable step list.

Graph to pipeline is a linearization: the scheduler produces a deterministic
topological order, each node becomes the step at its position in that order,
and every incoming edge becomes a full reference expression on the target
port key. A cyclic graph cannot be linearized and surfaces the scheduler's
error unchanged.

Pipeline to graph is a two-pass construction in the opposite direction:

 1. Node creation: each step becomes a node whose id is derived from its
    position, with ports populated from the tool's declared shapes (or
    synthesized as "unknown" when the tool is not registered).

 2. Connection derivation: each input entry that is a full step-reference
    expression to an earlier step becomes an inbound edge (a literal string
    that happens to spell such a reference is indistinguishable from a real
    one and converts the same way), and each legacyMapping entry becomes an
    equivalent edge, overwriting the expression-derived one for the same
    key. Everything else stays a literal value on the node.

The conversion is intentionally lossy at the syntax level: an edge stores
only a port key, so a reference that traverses deeper into an output comes
back as a reference to the port alone, and legacyMapping entries come back
as expressions. What round-trips exactly is connectivity: which keys are
fed by which step.
*/
package builder
