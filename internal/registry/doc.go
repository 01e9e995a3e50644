// Package registry is the central catalog of executable tools.
//
// The Registry maps tool ids to their full definitions: display metadata,
// declared input/output shapes, and the Go function that runs the tool.
// Builtin tool packages register themselves through the Module interface at
// application startup; after that the registry is read-only and safe for
// concurrent lookups.
//
// During startup the registry is validated against the HCL tool manifests to
// ensure the Go code and the public-facing declarations are perfectly in
// sync, preventing a wide class of runtime errors.
package registry
