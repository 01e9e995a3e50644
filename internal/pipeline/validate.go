package pipeline

import (
	"fmt"
	"strings"
)

// Validate checks the structural rules every pipeline must satisfy before it
// can be scheduled or executed. All violations are collected into a single
// error so callers can report them at once.
func (p *Pipeline) Validate() error {
	var errs []string
	for i, step := range p.Steps {
		if step.ToolID == "" {
			errs = append(errs, fmt.Sprintf("steps[%d].toolId: must not be empty", i))
		}
		for key, m := range step.LegacyMapping {
			if m.FromStep < 0 {
				errs = append(errs, fmt.Sprintf("steps[%d].legacyMapping[%q].fromStep: must not be negative", i, key))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid pipeline: %s", strings.Join(errs, "; "))
	}
	return nil
}
