package canvas

import (
	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// Hit geometry constants. Radii that describe rendered geometry (node body,
// connect ring) are world units and scale with zoom; hit margins around
// thin lines and handles are screen pixels so touch targets stay usable at
// low zoom.
const (
	nodeBodyRadius = 22.0 // world units
	connectRingRadius = 38.0 // world units

	mainlineHitMargin  = 18.0 // screen px, outer edge thirds
	wholeHitMargin     = 24.0 // screen px, middle third (strictly wider)
	endpointHandleSize = 12.0 // screen px
	hyperHandleSize    = 14.0 // screen px
	memberHitMargin    = 10.0 // screen px, hyper member connectors

	// Hyper handles sit at fixed parameters along the mainline.
	hyperTailHandleT = 0.35
	hyperHeadHandleT = 0.65
)

// TargetKind discriminates what a pointer-down struck.
type TargetKind int

const (
	TargetEmpty TargetKind = iota
	TargetNodeBody
	TargetNodeRing
	TargetEdgeBody
	TargetEdgeHandle
	TargetHyperHandle
	TargetHyperMember
)

// HitTarget describes the interactive element under a screen point. Fields
// beyond Kind are populated per kind.
type HitTarget struct {
	Kind TargetKind

	NodeID string // NodeBody, NodeRing
	EdgeID string // EdgeBody, EdgeHandle, HyperHandle, HyperMember

	Scope EdgeScope  // EdgeBody: mainline vs whole
	End   graph.Role // EdgeHandle: which endpoint was grabbed
	Role  graph.Role // HyperHandle, HyperMember

	MemberID         string // HyperMember
	Anchor           Point  // HyperHandle: world-space handle point
	AllowEdgeTargets bool   // HyperHandle: ubergraph edge-to-edge attachment
}

// Classifier resolves screen points against the current graph, reading
// node positions through the optimistic overlay and edge selection state
// for endpoint handles.
type Classifier struct {
	Graph     *graph.Graph
	Camera    *Camera
	Overlay   *Overlay
	Selection *Selection

	EdgeCreateEnabled bool
	RewireEnabled     bool
}

// NodePos returns a node's effective world position, overlay first.
func (cl *Classifier) NodePos(n *graph.Node) Point {
	if p, ok := cl.Overlay.Get(n.ID); ok {
		return p
	}
	return Point{X: n.X, Y: n.Y}
}

// nodePosByID resolves a node id to its effective position.
func (cl *Classifier) nodePosByID(id string) (Point, bool) {
	n := cl.Graph.Node(id)
	if n == nil {
		return Point{}, false
	}
	return cl.NodePos(n), true
}

// edgeEndpoints returns the mainline endpoints of an edge in world space.
// Either endpoint may anchor on a node or, in ubergraphs, another edge.
func (cl *Classifier) edgeEndpoints(e *graph.Edge) (Point, Point, bool) {
	a, okA := cl.memberAnchor(e.SourceID)
	b, okB := cl.memberAnchor(e.TargetID)
	return a, b, okA && okB
}

// memberAnchor resolves a member id: node center, or for edge members the
// referenced edge's mainline midpoint.
func (cl *Classifier) memberAnchor(id string) (Point, bool) {
	if p, ok := cl.nodePosByID(id); ok {
		return p, true
	}
	if other := cl.Graph.Edge(id); other != nil {
		a, okA := cl.nodePosByID(other.SourceID)
		b, okB := cl.nodePosByID(other.TargetID)
		if okA && okB {
			return Mid(a, b), true
		}
	}
	return Point{}, false
}

// EdgeMidpoint returns the world-space midpoint of an edge's mainline.
func (cl *Classifier) EdgeMidpoint(e *graph.Edge) (Point, bool) {
	a, b, ok := cl.edgeEndpoints(e)
	if !ok {
		return Point{}, false
	}
	return Mid(a, b), true
}

// HitTest classifies the element under a screen point. Priority: endpoint
// handles of the selected edge, hyper handles, node bodies, connect rings,
// hyper member connectors, edge bodies, empty canvas.
func (cl *Classifier) HitTest(screen Point) HitTarget {
	if cl.Graph == nil {
		return HitTarget{Kind: TargetEmpty}
	}

	if hit, ok := cl.hitEndpointHandle(screen); ok {
		return hit
	}
	if hit, ok := cl.hitHyperHandle(screen); ok {
		return hit
	}
	if hit, ok := cl.hitNode(screen); ok {
		return hit
	}
	if hit, ok := cl.hitHyperMember(screen); ok {
		return hit
	}
	if hit, ok := cl.hitEdgeBody(screen); ok {
		return hit
	}
	return HitTarget{Kind: TargetEmpty}
}

// hitEndpointHandle tests the grab handles at the ends of the currently
// selected edge. Present only while rewiring is enabled.
func (cl *Classifier) hitEndpointHandle(screen Point) (HitTarget, bool) {
	if !cl.RewireEnabled || cl.Selection == nil || cl.Selection.EdgeID == "" {
		return HitTarget{}, false
	}
	e := cl.Graph.Edge(cl.Selection.EdgeID)
	if e == nil {
		return HitTarget{}, false
	}
	a, b, ok := cl.edgeEndpoints(e)
	if !ok {
		return HitTarget{}, false
	}
	if Dist(screen, cl.Camera.ToScreen(a)) <= endpointHandleSize {
		return HitTarget{Kind: TargetEdgeHandle, EdgeID: e.ID, End: graph.RoleTail}, true
	}
	if Dist(screen, cl.Camera.ToScreen(b)) <= endpointHandleSize {
		return HitTarget{Kind: TargetEdgeHandle, EdgeID: e.ID, End: graph.RoleHead}, true
	}
	return HitTarget{}, false
}

// hitHyperHandle tests the tail/head attach handles present on every edge
// of hypergraph/ubergraph workspaces.
func (cl *Classifier) hitHyperHandle(screen Point) (HitTarget, bool) {
	if !cl.EdgeCreateEnabled || !cl.Graph.Type.AllowsHyperMembers() {
		return HitTarget{}, false
	}
	allowEdges := cl.Graph.Type.AllowsEdgeMembers()
	for _, e := range cl.Graph.Edges {
		a, b, ok := cl.edgeEndpoints(e)
		if !ok {
			continue
		}
		tail := Lerp(a, b, hyperTailHandleT)
		head := Lerp(a, b, hyperHeadHandleT)
		if Dist(screen, cl.Camera.ToScreen(tail)) <= hyperHandleSize {
			return HitTarget{
				Kind: TargetHyperHandle, EdgeID: e.ID, Role: graph.RoleTail,
				Anchor: tail, AllowEdgeTargets: allowEdges,
			}, true
		}
		if Dist(screen, cl.Camera.ToScreen(head)) <= hyperHandleSize {
			return HitTarget{
				Kind: TargetHyperHandle, EdgeID: e.ID, Role: graph.RoleHead,
				Anchor: head, AllowEdgeTargets: allowEdges,
			}, true
		}
	}
	return HitTarget{}, false
}

// hitNode tests node bodies and, when edge creation is enabled, the wider
// connect ring halo around each body.
func (cl *Classifier) hitNode(screen Point) (HitTarget, bool) {
	zoom := cl.Camera.Zoom
	var ringHit *HitTarget
	for _, n := range cl.Graph.Nodes {
		d := Dist(screen, cl.Camera.ToScreen(cl.NodePos(n)))
		if d <= nodeBodyRadius*zoom {
			return HitTarget{Kind: TargetNodeBody, NodeID: n.ID}, true
		}
		if cl.EdgeCreateEnabled && ringHit == nil && d <= connectRingRadius*zoom {
			ringHit = &HitTarget{Kind: TargetNodeRing, NodeID: n.ID}
		}
	}
	if ringHit != nil {
		return *ringHit, true
	}
	return HitTarget{}, false
}

// hitHyperMember tests the thin connector lines from each extra tail/head
// member anchor to the edge's fixed handle point.
func (cl *Classifier) hitHyperMember(screen Point) (HitTarget, bool) {
	if !cl.Graph.Type.AllowsHyperMembers() {
		return HitTarget{}, false
	}
	for _, e := range cl.Graph.Edges {
		a, b, ok := cl.edgeEndpoints(e)
		if !ok {
			continue
		}
		for _, role := range []graph.Role{graph.RoleTail, graph.RoleHead} {
			handle := Lerp(a, b, hyperTailHandleT)
			if role == graph.RoleHead {
				handle = Lerp(a, b, hyperHeadHandleT)
			}
			for _, memberID := range e.Members(role) {
				if memberID == e.SourceID && role == graph.RoleTail {
					continue // mainline endpoint, covered by the edge body
				}
				if memberID == e.TargetID && role == graph.RoleHead {
					continue
				}
				anchor, ok := cl.memberAnchor(memberID)
				if !ok {
					continue
				}
				_, d := projectOnSegment(screen, cl.Camera.ToScreen(anchor), cl.Camera.ToScreen(handle))
				if d <= memberHitMargin {
					return HitTarget{
						Kind: TargetHyperMember, EdgeID: e.ID, Role: role, MemberID: memberID,
					}, true
				}
			}
		}
	}
	return HitTarget{}, false
}

// hitEdgeBody tests an edge's mainline, decomposed into three collinear
// thirds: the outer thirds select the mainline pairing (scope=mainline),
// the middle third the whole hyperedge (scope=whole, wider margin).
func (cl *Classifier) hitEdgeBody(screen Point) (HitTarget, bool) {
	for _, e := range cl.Graph.Edges {
		a, b, ok := cl.edgeEndpoints(e)
		if !ok {
			continue
		}
		t, d := projectOnSegment(screen, cl.Camera.ToScreen(a), cl.Camera.ToScreen(b))
		scope := ScopeMainline
		margin := mainlineHitMargin
		if t >= 1.0/3.0 && t <= 2.0/3.0 {
			scope = ScopeWhole
			margin = wholeHitMargin
		}
		if d <= margin {
			return HitTarget{Kind: TargetEdgeBody, EdgeID: e.ID, Scope: scope}, true
		}
	}
	return HitTarget{}, false
}

// NearestNode finds the node closest to a screen point within radius
// screen pixels, excluding the given ids. Used as the drop-target search
// for edge creation, rewiring, and hyper attachment; the distance lets
// callers arbitrate between competing target kinds.
func (cl *Classifier) NearestNode(screen Point, radius float64, exclude map[string]bool) (string, float64, bool) {
	best := ""
	bestDist := radius
	for _, n := range cl.Graph.Nodes {
		if exclude[n.ID] {
			continue
		}
		d := Dist(screen, cl.Camera.ToScreen(cl.NodePos(n)))
		if d <= bestDist {
			best = n.ID
			bestDist = d
		}
	}
	return best, bestDist, best != ""
}

// NearestEdgeMidpoint finds the edge whose mainline midpoint is closest to
// a screen point within radius screen pixels, excluding the given edge.
// Used for ubergraph edge-to-edge attachment.
func (cl *Classifier) NearestEdgeMidpoint(screen Point, radius float64, exclude string) (string, float64, bool) {
	best := ""
	bestDist := radius
	for _, e := range cl.Graph.Edges {
		if e.ID == exclude {
			continue
		}
		mid, ok := cl.EdgeMidpoint(e)
		if !ok {
			continue
		}
		d := Dist(screen, cl.Camera.ToScreen(mid))
		if d <= bestDist {
			best = e.ID
			bestDist = d
		}
	}
	return best, bestDist, best != ""
}
