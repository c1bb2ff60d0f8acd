package canvas

import (
	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// HistoryLimit caps both the undo and redo stacks.
const HistoryLimit = 50

// History holds bounded undo/redo stacks of whole-graph snapshots. A
// snapshot is pushed before each mutating gesture commits; restores are
// guarded by a flag so undo/redo does not record itself.
type History struct {
	past      []*graph.Graph
	future    []*graph.Graph
	limit     int
	restoring bool
}

// NewHistory returns an empty history with the given capacity. A capacity
// of zero or less falls back to HistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{limit: limit}
}

// Push snapshots g onto the undo stack, evicting the oldest entry past the
// cap and clearing the redo stack. Suppressed while a restore is in
// progress.
func (h *History) Push(g *graph.Graph) {
	if h.restoring || g == nil {
		return
	}
	h.past = append(h.past, g.Clone())
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.future = h.future[:0]
}

// Undo pops the most recent snapshot, pushing current onto the redo stack.
// Returns nil, false when there is nothing to undo.
func (h *History) Undo(current *graph.Graph) (*graph.Graph, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	snap := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current.Clone())
	if len(h.future) > h.limit {
		h.future = h.future[len(h.future)-h.limit:]
	}
	return snap, true
}

// Redo pops the most recent redo snapshot, pushing current back onto the
// undo stack without clearing the remaining redo entries.
func (h *History) Redo(current *graph.Graph) (*graph.Graph, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	snap := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current.Clone())
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	return snap, true
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// BeginRestore suppresses pushes until EndRestore.
func (h *History) BeginRestore() { h.restoring = true }

// EndRestore re-enables pushes.
func (h *History) EndRestore() { h.restoring = false }

// Reset drops both stacks, such as when switching graphs.
func (h *History) Reset() {
	h.past = h.past[:0]
	h.future = h.future[:0]
	h.restoring = false
}
