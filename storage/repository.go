// Package storage provides the graph persistence backends behind the
// server: in-memory, a single JSON document on disk, and SQLite.
package storage

import (
	"context"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// Sentinel errors shared by every backend.
var (
	ErrGraphNotFound = errors.New("graph not found")
	ErrGraphExists   = errors.New("graph already exists")
)

// Repository stores whole graphs keyed by id. Save is an upsert: the graph
// aggregate is always written wholesale, matching how the editor mutates
// and reloads it.
type Repository interface {
	ListGraphs(ctx context.Context) ([]*graph.Graph, error)
	GetGraph(ctx context.Context, id string) (*graph.Graph, error)
	SaveGraph(ctx context.Context, g *graph.Graph) error
	DeleteGraph(ctx context.Context, id string) error
	Close() error
}
