package canvas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// testClassifier builds a classifier over g with identity camera and
// empty overlay.
func testClassifier(g *graph.Graph) (*Classifier, *Selection) {
	cam := NewCamera()
	sel := &Selection{EdgeScope: ScopeNone}
	return &Classifier{
		Graph:             g,
		Camera:            &cam,
		Overlay:           NewOverlay(),
		Selection:         sel,
		EdgeCreateEnabled: true,
		RewireEnabled:     true,
	}, sel
}

func twoNodeGraph() (*graph.Graph, *graph.Node, *graph.Node, *graph.Edge) {
	g := graph.New("g1", "hits")
	a := g.CreateNode(0, 0, "a")
	b := g.CreateNode(300, 0, "b")
	e := g.CreateEdge(a.ID, b.ID, "")
	return g, a, b, e
}

func TestHitNodeBodyAndRing(t *testing.T) {
	g, a, _, _ := twoNodeGraph()
	cl, _ := testClassifier(g)

	hit := cl.HitTest(Point{X: 10, Y: 0})
	assert.Equal(t, TargetNodeBody, hit.Kind)
	assert.Equal(t, a.ID, hit.NodeID)

	// Outside the body but inside the connect-ring halo.
	hit = cl.HitTest(Point{X: 0, Y: 30})
	assert.Equal(t, TargetNodeRing, hit.Kind)
	assert.Equal(t, a.ID, hit.NodeID)

	// Ring disappears when edge creation is disabled.
	cl.EdgeCreateEnabled = false
	hit = cl.HitTest(Point{X: 0, Y: 30})
	assert.NotEqual(t, TargetNodeRing, hit.Kind)
}

func TestEdgeSegmentScopes(t *testing.T) {
	g, _, _, e := twoNodeGraph()
	cl, _ := testClassifier(g)

	// Middle third selects the whole hyperedge structure.
	hit := cl.HitTest(Point{X: 150, Y: 10})
	require.Equal(t, TargetEdgeBody, hit.Kind)
	assert.Equal(t, e.ID, hit.EdgeID)
	assert.Equal(t, ScopeWhole, hit.Scope)

	// Outer thirds select the mainline pairing.
	hit = cl.HitTest(Point{X: 60, Y: 10})
	require.Equal(t, TargetEdgeBody, hit.Kind)
	assert.Equal(t, ScopeMainline, hit.Scope)

	hit = cl.HitTest(Point{X: 240, Y: 10})
	require.Equal(t, TargetEdgeBody, hit.Kind)
	assert.Equal(t, ScopeMainline, hit.Scope)

	// The middle margin (24px) is strictly wider than the outer margin
	// (18px): 20px off the line hits the middle third but not the outer.
	hit = cl.HitTest(Point{X: 150, Y: 20})
	require.Equal(t, TargetEdgeBody, hit.Kind)
	assert.Equal(t, ScopeWhole, hit.Scope)

	hit = cl.HitTest(Point{X: 60, Y: 20})
	assert.Equal(t, TargetEmpty, hit.Kind)
}

func TestEndpointHandlesRequireSelection(t *testing.T) {
	g, _, b, e := twoNodeGraph()
	cl, sel := testClassifier(g)

	// Not selected: the press near B's center hits the node body.
	hit := cl.HitTest(Point{X: 300, Y: 5})
	assert.Equal(t, TargetNodeBody, hit.Kind)

	sel.SelectEdge(e.ID, ScopeMainline)
	hit = cl.HitTest(Point{X: 300, Y: 5})
	require.Equal(t, TargetEdgeHandle, hit.Kind)
	assert.Equal(t, e.ID, hit.EdgeID)
	assert.Equal(t, graph.RoleHead, hit.End)
	assert.Equal(t, b.ID, g.Edge(e.ID).TargetID)

	hit = cl.HitTest(Point{X: 2, Y: -3})
	require.Equal(t, TargetEdgeHandle, hit.Kind)
	assert.Equal(t, graph.RoleTail, hit.End)
}

func TestHyperHandles(t *testing.T) {
	g, _, _, e := twoNodeGraph()
	g.Type = graph.TypeHypergraph
	cl, _ := testClassifier(g)

	// Tail handle at 35% of the mainline.
	hit := cl.HitTest(Point{X: 105, Y: 8})
	require.Equal(t, TargetHyperHandle, hit.Kind)
	assert.Equal(t, e.ID, hit.EdgeID)
	assert.Equal(t, graph.RoleTail, hit.Role)
	assert.False(t, hit.AllowEdgeTargets)

	hit = cl.HitTest(Point{X: 195, Y: -8})
	require.Equal(t, TargetHyperHandle, hit.Kind)
	assert.Equal(t, graph.RoleHead, hit.Role)

	// Ubergraphs permit edge-to-edge attachment.
	g.Type = graph.TypeUbergraph
	hit = cl.HitTest(Point{X: 105, Y: 8})
	require.Equal(t, TargetHyperHandle, hit.Kind)
	assert.True(t, hit.AllowEdgeTargets)

	// Plain graphs have no hyper handles; the point falls through to the
	// edge body.
	g.Type = graph.TypeGraph
	hit = cl.HitTest(Point{X: 105, Y: 8})
	assert.Equal(t, TargetEdgeBody, hit.Kind)
}

func TestHyperMemberSegment(t *testing.T) {
	g, _, _, e := twoNodeGraph()
	g.Type = graph.TypeHypergraph
	c := g.CreateNode(150, 200, "c")
	e.AddMember(graph.RoleTail, c.ID)
	cl, _ := testClassifier(g)

	// The connector runs from C's center to the tail handle at (105, 0);
	// probe near its midpoint.
	hit := cl.HitTest(Point{X: 127, Y: 100})
	require.Equal(t, TargetHyperMember, hit.Kind)
	assert.Equal(t, e.ID, hit.EdgeID)
	assert.Equal(t, graph.RoleTail, hit.Role)
	assert.Equal(t, c.ID, hit.MemberID)
}

func TestNearestNodeRespectsRadiusAndExclusion(t *testing.T) {
	g, a, b, _ := twoNodeGraph()
	cl, _ := testClassifier(g)

	id, d, ok := cl.NearestNode(Point{X: 310, Y: 10}, nodePickRadius, nil)
	require.True(t, ok)
	assert.Equal(t, b.ID, id)
	assert.InDelta(t, math.Sqrt(200), d, 1e-9)

	_, _, ok = cl.NearestNode(Point{X: 310, Y: 10}, nodePickRadius, map[string]bool{b.ID: true})
	assert.False(t, ok)

	_, _, ok = cl.NearestNode(Point{X: 150, Y: 150}, nodePickRadius, nil)
	assert.False(t, ok)

	id, _, ok = cl.NearestNode(Point{X: 20, Y: 0}, nodePickRadius, nil)
	require.True(t, ok)
	assert.Equal(t, a.ID, id)
}

func TestOverlayPositionsFeedHitTesting(t *testing.T) {
	g, a, _, _ := twoNodeGraph()
	cl, _ := testClassifier(g)

	cl.Overlay.Set(a.ID, Point{X: 500, Y: 500})
	hit := cl.HitTest(Point{X: 500, Y: 505})
	require.Equal(t, TargetNodeBody, hit.Kind)
	assert.Equal(t, a.ID, hit.NodeID)

	hit = cl.HitTest(Point{X: 0, Y: 5})
	assert.NotEqual(t, TargetNodeBody, hit.Kind)
}
