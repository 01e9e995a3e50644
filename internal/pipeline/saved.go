package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/specialistvlad/toolpipe/internal/graph"
)

// Saved is a pipeline persisted under a user-chosen slug id, together with
// the editor layout and bookkeeping timestamps. The pipeline definition is
// embedded so the wire form carries a flat "steps" array.
type Saved struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Pipeline
	Layout    *Layout   `json:"layout,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Layout captures editor placement: stored node positions plus an optional
// viewport. Nodes without a stored position fall back to auto-layout.
type Layout struct {
	Nodes    []graph.NodePlacement `json:"nodes,omitempty"`
	Viewport *Viewport             `json:"viewport,omitempty"`
}

// Viewport is the editor camera.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Summary is the listing view of a saved pipeline: metadata only, no steps.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summary projects the listing view from a saved record.
func (s *Saved) Summary() Summary {
	return Summary{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Clone returns a deep copy of the record. Stores hand out clones so callers
// can never alias persisted maps.
func (s *Saved) Clone() *Saved {
	if s == nil {
		return nil
	}
	out := *s
	out.Steps = cloneSteps(s.Steps)
	out.Layout = s.Layout.clone()
	return &out
}

func (l *Layout) clone() *Layout {
	if l == nil {
		return nil
	}
	out := Layout{}
	if l.Nodes != nil {
		out.Nodes = make([]graph.NodePlacement, len(l.Nodes))
		copy(out.Nodes, l.Nodes)
	}
	if l.Viewport != nil {
		vp := *l.Viewport
		out.Viewport = &vp
	}
	return &out
}

func cloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	for i, step := range steps {
		out[i] = step
		if step.Input != nil {
			out[i].Input = cloneValue(step.Input).(map[string]any)
		}
		if step.LegacyMapping != nil {
			lm := make(map[string]Mapping, len(step.LegacyMapping))
			for k, v := range step.LegacyMapping {
				lm[k] = v
			}
			out[i].LegacyMapping = lm
		}
	}
	return out
}

// cloneValue deep-copies a JSON-shaped value (maps, slices, scalars).
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// SaveInput is everything a caller provides to create or update a saved
// pipeline. Timestamps are assigned by the store.
type SaveInput struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Pipeline    Pipeline `json:"pipeline"`
	Layout      *Layout  `json:"layout,omitempty"`
}

const (
	maxIDLen          = 64
	maxNameLen        = 128
	maxDescriptionLen = 1024
)

// slugPattern: lowercase letters, digits, and interior hyphens. No leading or
// trailing hyphen.
var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

// reservedIDs are slugs the editor routes claim for itself.
var reservedIDs = map[string]bool{"new": true, "run": true}

// ValidateSaveInput checks the naming rules for saved pipelines. Violations
// are collected into one error with field-prefixed details.
func ValidateSaveInput(in SaveInput) error {
	var errs []string
	switch {
	case in.ID == "" || len(in.ID) > maxIDLen:
		errs = append(errs, fmt.Sprintf("id: must be 1-%d characters", maxIDLen))
	case !slugPattern.MatchString(in.ID):
		errs = append(errs, "id: must contain only lowercase letters, digits, and hyphens, and must not start or end with a hyphen")
	case reservedIDs[in.ID]:
		errs = append(errs, fmt.Sprintf("id: %q is reserved", in.ID))
	}
	if in.Name == "" || len(in.Name) > maxNameLen {
		errs = append(errs, fmt.Sprintf("name: must be 1-%d characters", maxNameLen))
	}
	if len(in.Description) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description: must be at most %d characters", maxDescriptionLen))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid save input: %s", strings.Join(errs, "; "))
	}
	return nil
}
