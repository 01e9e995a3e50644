// Package manifests ships the HCL declarations for the builtin tools.
//
// Each .hcl file declares one tool: its display metadata and its input and
// output shapes. The app loads these at boot and validates them against the
// Go-registered tools.
package manifests

import "embed"

// FS holds every builtin tool manifest.
//
//go:embed *.hcl
var FS embed.FS
