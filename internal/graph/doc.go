// Package graph holds the editor-facing dependency graph model: positioned
// nodes with typed ports, directed edges between ports, structural
// validation, and the single-row auto layout. Conversion to and from the
// serialized pipeline form lives in the builder package; deterministic
// linearization lives in the scheduler package.
package graph
