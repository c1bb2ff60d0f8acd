package canvas

// Overlay is the optimistic node position cache: positions mutated by an
// in-progress drag, consulted before the authoritative graph and cleared
// when a fresh authoritative graph arrives.
type Overlay struct {
	pos map[string]Point
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{pos: make(map[string]Point)}
}

// Set records an optimistic world position for a node.
func (o *Overlay) Set(nodeID string, p Point) {
	o.pos[nodeID] = p
}

// Get returns the optimistic position for a node, if any.
func (o *Overlay) Get(nodeID string) (Point, bool) {
	p, ok := o.pos[nodeID]
	return p, ok
}

// Delete drops a single node's optimistic position.
func (o *Overlay) Delete(nodeID string) {
	delete(o.pos, nodeID)
}

// Clear drops every optimistic position.
func (o *Overlay) Clear() {
	o.pos = make(map[string]Point)
}

// Len reports how many nodes currently have optimistic positions.
func (o *Overlay) Len() int {
	return len(o.pos)
}
