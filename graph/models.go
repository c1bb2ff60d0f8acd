package graph

import (
	"github.com/google/uuid"
)

// RGB is a 3-component color as persisted by the backend ([r, g, b], 0-255).
type RGB [3]int

// Default display settings for new graphs.
var (
	DefaultBackground = RGB{255, 255, 255}
	DefaultGridColor  = RGB{240, 240, 240}
)

// Node is an entity on the canvas. Position is in world coordinates; the
// interaction core mutates only X/Y, everything else passes through the
// property editor.
type Node struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Metadata map[string]any `json:"metadata"`
}

// Edge connects tail members to head members. SourceID/TargetID carry the
// mainline pairing; SourceIDs/TargetIDs carry the full member sets and are
// always non-empty, with the mainline id following the first member. In
// ubergraphs a member id may name another edge.
type Edge struct {
	ID        string         `json:"id"`
	SourceID  string         `json:"source_id"`
	TargetID  string         `json:"target_id"`
	SourceIDs []string       `json:"source_ids"`
	TargetIDs []string       `json:"target_ids"`
	Text      string         `json:"text,omitempty"`
	Metadata  map[string]any `json:"metadata"`
}

// Graph is the aggregate root: ordered nodes and edges plus rendering
// metadata. Nodes and edges reference each other by id only.
type Graph struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Type              Type           `json:"graph_type"`
	Directed          bool           `json:"directed"`
	Nodes             []*Node        `json:"nodes"`
	Edges             []*Edge        `json:"edges"`
	Metadata          map[string]any `json:"metadata"`
	BackgroundColor   RGB            `json:"background_color"`
	GridVisible       bool           `json:"grid_visible"`
	GridSize          int            `json:"grid_size"`
	GridColor         RGB            `json:"grid_color"`
	GridLineThickness float64        `json:"grid_line_thickness"`
}

// New creates an empty graph with default display settings.
func New(id, name string) *Graph {
	if id == "" {
		id = uuid.NewString()
	}
	return &Graph{
		ID:                id,
		Name:              name,
		Type:              TypeGraph,
		Directed:          true,
		Nodes:             []*Node{},
		Edges:             []*Edge{},
		BackgroundColor:   DefaultBackground,
		GridVisible:       true,
		GridSize:          20,
		GridColor:         DefaultGridColor,
		GridLineThickness: 1.0,
	}
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Edge returns the edge with the given id, or nil.
func (g *Graph) Edge(id string) *Edge {
	for _, e := range g.Edges {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// CreateNode mints a node at the given position and appends it.
func (g *Graph) CreateNode(x, y float64, text string) *Node {
	n := &Node{
		ID:       uuid.NewString(),
		Text:     text,
		X:        x,
		Y:        y,
		Metadata: map[string]any{},
	}
	g.Nodes = append(g.Nodes, n)
	return n
}

// CreateEdge mints an edge from sourceID to targetID and appends it. The
// member sets start as singletons holding the mainline ids.
func (g *Graph) CreateEdge(sourceID, targetID, text string) *Edge {
	e := &Edge{
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		TargetID:  targetID,
		SourceIDs: []string{sourceID},
		TargetIDs: []string{targetID},
		Text:      text,
		Metadata:  map[string]any{},
	}
	g.Edges = append(g.Edges, e)
	return e
}

// RemoveNode deletes the node and every edge whose mainline references it.
func (g *Graph) RemoveNode(id string) bool {
	idx := -1
	for i, n := range g.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)

	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if e.SourceID == id || e.TargetID == id {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	return true
}

// RemoveEdge deletes the edge with the given id.
func (g *Graph) RemoveEdge(id string) bool {
	for i, e := range g.Edges {
		if e.ID == id {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			return true
		}
	}
	return false
}

// PatchPositions applies a batch of node position updates. Unknown ids are
// skipped. Returns the ids that were actually updated.
func (g *Graph) PatchPositions(positions []NodePosition) []string {
	updated := make([]string, 0, len(positions))
	for _, p := range positions {
		if n := g.Node(p.ID); n != nil {
			n.X, n.Y = p.X, p.Y
			updated = append(updated, p.ID)
		}
	}
	return updated
}

// NodePosition is one entry of a bulk position patch.
type NodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Clone deep-copies the graph. Snapshots taken for history must not alias
// live node/edge state.
func (g *Graph) Clone() *Graph {
	c := *g
	c.Nodes = make([]*Node, len(g.Nodes))
	for i, n := range g.Nodes {
		nc := *n
		nc.Metadata = cloneMap(n.Metadata)
		c.Nodes[i] = &nc
	}
	c.Edges = make([]*Edge, len(g.Edges))
	for i, e := range g.Edges {
		ec := *e
		ec.SourceIDs = append([]string(nil), e.SourceIDs...)
		ec.TargetIDs = append([]string(nil), e.TargetIDs...)
		ec.Metadata = cloneMap(e.Metadata)
		c.Edges[i] = &ec
	}
	c.Metadata = cloneMap(g.Metadata)
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
