package tool

import "context"

// SetVariableID is the well-known id of the variable-setter tool. The engine
// watches for it: whatever a step with this tool id outputs as {name, value}
// is written into the run's variable table.
const SetVariableID = "set-variable"

// Func executes one tool invocation. The input map is the step's fully
// resolved input; the returned value is recorded verbatim as the step output.
// Implementations must honor ctx cancellation for long-running work.
type Func func(ctx context.Context, input map[string]any) (any, error)

// Definition is the contract a tool registers under. It is immutable once
// registered: the registry hands out the same instance to every caller.
type Definition struct {
	ID          string
	Name        string
	Description string
	Category    string
	Inputs      Shape
	Outputs     Shape
	Run         Func
}

// Summary is the read-only view of a tool exposed to listings. It carries no
// executable handle.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Summary returns the listing view of the definition.
func (d *Definition) Summary() Summary {
	return Summary{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
	}
}

// DisplayName returns the human-readable name, falling back to the id.
func (d *Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
