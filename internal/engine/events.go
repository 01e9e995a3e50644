package engine

import "log/slog"

// Progress is a human-oriented execution update, suitable for a progress bar
// or a log line.
type Progress struct {
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

// Phase names a point in the run lifecycle.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseRunning   Phase = "running"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// State is the run-level state. Step is the active step index while running
// and the failing step index on failure; -1 otherwise. Editors use it to
// highlight the corresponding node.
type State struct {
	Phase Phase `json:"phase"`
	Step  int   `json:"step"`
}

// Callbacks are synchronous fire-and-forget: a panicking observer is logged
// and never affects the run outcome.

func emitProgress(logger *slog.Logger, fn func(Progress), p Progress) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Progress callback panicked.", "panic", r)
		}
	}()
	fn(p)
}

func emitState(logger *slog.Logger, fn func(State), s State) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("State callback panicked.", "panic", r)
		}
	}()
	fn(s)
}
