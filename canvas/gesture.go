package canvas

import (
	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// Gesture pick radii and thresholds, in screen pixels.
const (
	nodePickRadius = 28.0 // drop-target search for create/rewire/attach
	edgePickRadius = 30.0 // ubergraph edge-member drop targets
	dragThreshold  = 2.0  // below this a node press is a plain selection
)

// GestureKind discriminates the five gesture variants. The set is closed;
// update/commit handlers switch exhaustively over it.
type GestureKind int

const (
	GesturePan GestureKind = iota
	GestureNodeDrag
	GestureEdgeCreate
	GestureEdgeRewire
	GestureHyperAttach
)

// Gesture is the transient state of one in-progress pointer interaction.
// Exactly one gesture may be active per pointer id; fields beyond Kind,
// Pointer, Origin, and Last are kind-specific payload.
type Gesture struct {
	Kind    GestureKind
	Pointer int
	Origin  Point // screen position at press
	Last    Point // most recent screen position
	Moved   bool  // exceeded dragThreshold at least once

	// NodeDrag: node being moved and its pre-drag world position.
	// EdgeCreate: anchor (source) node.
	NodeID     string
	StartWorld Point
	GrabOffset Point // world offset from pointer to node center at press

	// EdgeRewire / HyperAttach
	EdgeID           string
	End              graph.Role // rewire: which endpoint floats
	Role             graph.Role // attach: which member set grows
	AllowEdgeTargets bool

	// Current drop candidates, refreshed on every move.
	HoverNodeID string
	HoverEdgeID string
}

// hover reports whether the gesture currently has any valid drop target.
func (g *Gesture) hover() bool {
	return g.HoverNodeID != "" || g.HoverEdgeID != ""
}
