// Package tool defines the contract every registered tool satisfies: a
// stable id, listing metadata, declared input/output shapes, and a single
// execution function from a resolved input map to an output value.
//
// Shapes are declared with cty types so that input validation, manifest
// parity checks, and schema exports all share one type system. The string
// names in the Type* constants are the serialized vocabulary those types get
// on graph ports and edges.
package tool
