// Package scheduler turns a dependency graph into a deterministic linear
// execution order. Order matters beyond correctness here: it assigns the
// step indices that expressions reference and drives node highlighting
// during a run, so ties are broken by canvas position rather than left to
// map iteration.
package scheduler
