package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

func sampleGraph(id, name string) *graph.Graph {
	g := graph.New(id, name)
	a := g.CreateNode(0, 0, "a")
	b := g.CreateNode(100, 50, "b")
	g.CreateEdge(a.ID, b.ID, "link")
	return g
}

// repoRoundTrip exercises the Repository contract shared by all backends.
func repoRoundTrip(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.GetGraph(ctx, "missing")
	assert.ErrorIs(t, err, ErrGraphNotFound)

	g := sampleGraph("g1", "alpha")
	require.NoError(t, repo.SaveGraph(ctx, g))

	got, err := repo.GetGraph(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, g, got)

	// Upsert replaces wholesale.
	g.Name = "alpha-2"
	g.Nodes[0].X = 42
	require.NoError(t, repo.SaveGraph(ctx, g))
	got, err = repo.GetGraph(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "alpha-2", got.Name)
	assert.Equal(t, 42.0, got.Nodes[0].X)

	require.NoError(t, repo.SaveGraph(ctx, sampleGraph("g2", "beta")))
	list, err := repo.ListGraphs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha-2", list[0].Name)
	assert.Equal(t, "beta", list[1].Name)

	require.NoError(t, repo.DeleteGraph(ctx, "g1"))
	assert.ErrorIs(t, repo.DeleteGraph(ctx, "g1"), ErrGraphNotFound)
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	defer repo.Close()
	repoRoundTrip(t, repo)
}

func TestMemoryRepositoryCopiesOnSave(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	g := sampleGraph("g1", "alpha")
	require.NoError(t, repo.SaveGraph(ctx, g))
	g.Nodes[0].X = 999

	got, err := repo.GetGraph(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Nodes[0].X)
}

func TestJSONFileRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.json")
	repo, err := NewJSONFileRepository(path, nil)
	require.NoError(t, err)
	defer repo.Close()
	repoRoundTrip(t, repo)
}

func TestJSONFileRepositoryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.json")
	ctx := context.Background()

	repo, err := NewJSONFileRepository(path, nil)
	require.NoError(t, err)
	g := sampleGraph("g1", "alpha")
	require.NoError(t, repo.SaveGraph(ctx, g))
	require.NoError(t, repo.Close())

	reopened, err := NewJSONFileRepository(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.GetGraph(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestSQLiteRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.db")
	repo, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	defer repo.Close()
	repoRoundTrip(t, repo)
}

func TestSQLiteRepositoryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphs.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	g := sampleGraph("g1", "alpha")
	require.NoError(t, repo.SaveGraph(ctx, g))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.GetGraph(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, g, got)
}
