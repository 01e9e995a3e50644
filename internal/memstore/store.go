// Package memstore provides a thread-safe, in-memory implementation of the
// store.Store interface. It is the default backend and is suitable for
// development, testing, and one-shot CLI runs where saved pipelines do not
// need to outlive the process.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/specialistvlad/toolpipe/internal/pipeline"
	"github.com/specialistvlad/toolpipe/internal/store"
)

// Store implements store.Store with a map and a mutex. Records are cloned on
// the way in and out, so callers can never mutate held state through a
// returned pointer.
type Store struct {
	mu        sync.RWMutex
	pipelines map[string]*pipeline.Saved

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		pipelines: make(map[string]*pipeline.Saved),
		now:       time.Now,
	}
}

// List returns summaries of every saved pipeline, sorted by id.
func (s *Store) List(ctx context.Context) ([]pipeline.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]pipeline.Summary, 0, len(s.pipelines))
	for _, saved := range s.pipelines {
		summaries = append(summaries, saved.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// Get returns the saved pipeline with the given id.
func (s *Store) Get(ctx context.Context, id string) (*pipeline.Saved, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	saved, ok := s.pipelines[id]
	if !ok {
		return nil, store.ErrPipelineNotFound
	}
	return saved.Clone(), nil
}

// Save upserts a pipeline under its id, preserving createdAt across updates.
func (s *Store) Save(ctx context.Context, in pipeline.SaveInput) (*pipeline.Saved, error) {
	if err := store.ValidateSave(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	saved := &pipeline.Saved{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Pipeline:    in.Pipeline,
		Layout:      in.Layout,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if prev, exists := s.pipelines[in.ID]; exists {
		saved.CreatedAt = prev.CreatedAt
	}

	s.pipelines[in.ID] = saved.Clone()
	return saved.Clone(), nil
}

// Remove deletes the saved pipeline with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pipelines[id]; !ok {
		return store.ErrPipelineNotFound
	}
	delete(s.pipelines, id)
	return nil
}
