// Package manifest loads HCL tool declarations.
//
// Every builtin tool ships a manifest describing its identity and its
// input/output shapes:
//
//	tool "delay" {
//	  name     = "Delay"
//	  category = "utility"
//
//	  input "ms" {
//	    type     = number
//	    required = true
//	  }
//
//	  output "ms" {
//	    type = number
//	  }
//	}
//
// The registry cross-checks these declarations against the Go-registered
// tools at boot, so a manifest and its implementation cannot drift apart
// silently.
package manifest
