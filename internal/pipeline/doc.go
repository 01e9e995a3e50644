// Package pipeline defines the serialized form of a tool pipeline and its
// persisted variant.
//
// A pipeline is an ordered list of steps. Each step names a tool, carries an
// input map whose string values may contain ${{ ... }} expressions, an
// optional legacyMapping block ({fromStep, field}) kept for older documents,
// and a bypass flag. Step position in the slice is the step's index: it is
// what expressions refer to and what execution order follows, so codecs and
// stores must never reorder steps.
//
// The wire format is JSON with camelCase keys:
//
//	{"steps": [{"toolId": "echo", "input": {"x": "${{ steps.0.output.y }}"}}]}
//
// Saved wraps a pipeline with a slug id, display name, editor layout, and
// timestamps; SaveInput plus ValidateSaveInput carry the naming rules stores
// enforce on save.
package pipeline
