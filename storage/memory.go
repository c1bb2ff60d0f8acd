package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// MemoryRepository keeps graphs in a map. Used by tests and as the default
// backend when no persistence is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	graphs map[string]*graph.Graph
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{graphs: make(map[string]*graph.Graph)}
}

// ListGraphs returns all graphs sorted by name.
func (r *MemoryRepository) ListGraphs(_ context.Context) ([]*graph.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*graph.Graph, 0, len(r.graphs))
	for _, g := range r.graphs {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetGraph returns a copy of the graph with the given id.
func (r *MemoryRepository) GetGraph(_ context.Context, id string) (*graph.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.graphs[id]
	if !ok {
		return nil, ErrGraphNotFound
	}
	return g.Clone(), nil
}

// SaveGraph upserts a graph. The stored copy never aliases the caller's.
func (r *MemoryRepository) SaveGraph(_ context.Context, g *graph.Graph) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.ID] = g.Clone()
	return nil
}

// DeleteGraph removes a graph.
func (r *MemoryRepository) DeleteGraph(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.graphs[id]; !ok {
		return ErrGraphNotFound
	}
	delete(r.graphs, id)
	return nil
}

// Close is a no-op for the in-memory backend.
func (r *MemoryRepository) Close() error { return nil }
