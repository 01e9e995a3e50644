// Package store defines the persistence boundary for saved pipelines. The
// store is the sole writer of saved records; the engine and builder only
// consume definitions and never persist anything themselves.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/toolpipe/internal/pipeline"
)

var (
	// ErrPipelineNotFound reports a Get or Remove against an id the store
	// does not hold.
	ErrPipelineNotFound = errors.New("pipeline not found")
	// ErrValidationFailed reports a Save whose input violates the naming
	// rules. The wrapped error carries the field-level details.
	ErrValidationFailed = errors.New("validation failed")
)

// Store is the persistence collaborator for saved pipelines. Save upserts:
// the first save of an id sets createdAt, every later save preserves it and
// bumps updatedAt. Implementations must be safe for concurrent use and must
// never hand out aliases of their internal state.
type Store interface {
	List(ctx context.Context) ([]pipeline.Summary, error)
	Get(ctx context.Context, id string) (*pipeline.Saved, error)
	Save(ctx context.Context, in pipeline.SaveInput) (*pipeline.Saved, error)
	Remove(ctx context.Context, id string) error
}

// ValidateSave applies the shared naming rules every implementation enforces
// before writing. Only naming is checked here: drafts with structurally
// incomplete steps are saveable, structure is validated before execution.
func ValidateSave(in pipeline.SaveInput) error {
	if err := pipeline.ValidateSaveInput(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return nil
}
