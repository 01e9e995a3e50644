package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRunCancelled reports cooperative cancellation observed between steps.
// The returned error also wraps the context's error.
var ErrRunCancelled = errors.New("run cancelled")

// ToolNotFound reports a step whose tool id is not in the registry.
type ToolNotFound struct {
	Step   int
	ToolID string
}

func (e *ToolNotFound) Error() string {
	return fmt.Sprintf("step %d: tool %q not found", e.Step, e.ToolID)
}

// StepInputInvalid reports resolved input that failed shape validation.
type StepInputInvalid struct {
	Step    int
	ToolID  string
	Details []string
}

func (e *StepInputInvalid) Error() string {
	return fmt.Sprintf("step %d: invalid input for tool %q: %s", e.Step, e.ToolID, strings.Join(e.Details, "; "))
}

// StepExecutionFailed reports a tool invocation that returned an error.
type StepExecutionFailed struct {
	Step   int
	ToolID string
	Err    error
}

func (e *StepExecutionFailed) Error() string {
	return fmt.Sprintf("step %d: tool %q failed: %v", e.Step, e.ToolID, e.Err)
}

func (e *StepExecutionFailed) Unwrap() error { return e.Err }
