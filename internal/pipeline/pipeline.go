package pipeline

// Step is one ordered unit of work. Its position in the Steps slice is its
// identity: expressions address it as steps.<index>.
//
// Input values are opaque literals or ${{ ... }} expression strings.
// LegacyMapping is the older wiring mechanism kept for compatibility: each
// entry names an input key to fill from a prior step's output, optionally
// narrowed by a dot path. Both may coexist on one step; legacy entries are
// resolved after, and overlay on top of, expression-resolved input.
type Step struct {
	ToolID        string             `json:"toolId"`
	Input         map[string]any     `json:"input,omitempty"`
	LegacyMapping map[string]Mapping `json:"legacyMapping,omitempty"`
	Bypass        bool               `json:"bypass,omitempty"`
}

// Mapping pulls one input key from a prior step's output.
type Mapping struct {
	FromStep int    `json:"fromStep"`
	Field    string `json:"field,omitempty"`
}

// Pipeline is the serialized, ordered form of a workflow.
type Pipeline struct {
	Steps []Step `json:"steps"`
}
