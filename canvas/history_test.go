package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

func graphWithName(name string) *graph.Graph {
	g := graph.New("g1", name)
	g.CreateNode(0, 0, name)
	return g
}

func TestHistoryBoundEvictsOldest(t *testing.T) {
	h := NewHistory(50)
	for i := 0; i < 60; i++ {
		h.Push(graphWithName(fmt.Sprintf("snap-%d", i)))
	}
	count := 0
	cur := graphWithName("current")
	var oldest *graph.Graph
	for {
		snap, ok := h.Undo(cur)
		if !ok {
			break
		}
		oldest = snap
		count++
	}
	assert.Equal(t, 50, count)
	// The ten oldest snapshots were evicted first.
	require.NotNil(t, oldest)
	assert.Equal(t, "snap-10", oldest.Name)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(50)

	before := graph.New("g1", "work")
	a := before.CreateNode(1, 2, "a")
	b := before.CreateNode(3, 4, "b")
	before.CreateEdge(a.ID, b.ID, "")

	h.Push(before)
	after := before.Clone()
	after.Nodes[0].X = 99

	restored, ok := h.Undo(after)
	require.True(t, ok)
	assert.Equal(t, before, restored)

	redone, ok := h.Redo(restored)
	require.True(t, ok)
	// Undo immediately followed by redo restores identical node/edge state.
	assert.Equal(t, after, redone)
}

func TestPushClearsFuture(t *testing.T) {
	h := NewHistory(50)
	h.Push(graphWithName("one"))
	_, ok := h.Undo(graphWithName("current"))
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Push(graphWithName("two"))
	assert.False(t, h.CanRedo())
}

func TestRestoreSuppressesPush(t *testing.T) {
	h := NewHistory(50)
	h.BeginRestore()
	h.Push(graphWithName("ignored"))
	h.EndRestore()
	assert.False(t, h.CanUndo())

	h.Push(graphWithName("kept"))
	assert.True(t, h.CanUndo())
}
