package canvas

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tbrumbaugh5396/graph-canvas/graph"
	"github.com/tbrumbaugh5396/graph-canvas/internal/util"
	"github.com/tbrumbaugh5396/graph-canvas/logger"
)

// commitTimeout bounds each outbound store request.
const commitTimeout = 10 * time.Second

// Store is the remote graph collaborator the controller commits mutations
// to. All calls are fallible; a rejection surfaces as a status message and
// local optimistic state is not rolled back.
type Store interface {
	CreateNode(ctx context.Context, graphID string, x, y float64, text string) (*graph.Node, error)
	UpdateNodePosition(ctx context.Context, graphID, nodeID string, x, y float64) error
	DeleteNode(ctx context.Context, graphID, nodeID string) error
	CreateEdge(ctx context.Context, graphID string, sourceIDs, targetIDs []string) (*graph.Edge, error)
	UpdateEdge(ctx context.Context, graphID, edgeID string, patch graph.EdgePatch) (*graph.Edge, error)
	DeleteEdge(ctx context.Context, graphID, edgeID string) error
	ReplaceGraph(ctx context.Context, g *graph.Graph) error
}

// Pointer is one low-level pointer event's identity and position. Coarse
// marks touch-class input lacking hover and fine precision.
type Pointer struct {
	ID     int
	Pos    Point // screen pixels
	Coarse bool
}

// Options configure which affordances the controller exposes.
type Options struct {
	EnableEdgeCreate bool
	EnableRewire     bool
	EnableDelete     bool
	HistoryLimit     int
	Clock            Clock
	// OnStatus receives transient user-facing messages (commit failures).
	OnStatus func(msg string)
}

// Controller is the gesture state machine: it turns pointer, wheel, and
// timer events into camera changes and structural graph mutations. All
// transitions run synchronously under one mutex; the only asynchronous
// boundary is the commit to the store at gesture release.
type Controller struct {
	mu        sync.Mutex
	graph     *graph.Graph
	camera    Camera
	overlay   *Overlay
	selection Selection
	history   *History
	gestures  map[int]*Gesture
	touch     touchState

	store Store
	log   *zap.SugaredLogger
	opts  Options
	clock Clock

	fullscreen bool
	commits    sync.WaitGroup
}

// New creates a controller for the given store. A nil logger falls back to
// the global logger; a nil clock uses the system clock.
func New(store Store, log *zap.SugaredLogger, opts Options) *Controller {
	if log == nil {
		log = logger.Logger
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &Controller{
		camera:   NewCamera(),
		overlay:  NewOverlay(),
		history:  NewHistory(opts.HistoryLimit),
		gestures: make(map[int]*Gesture),
		touch:    newTouchState(),
		store:    store,
		log:      log,
		opts:     opts,
		clock:    clock,
	}
}

// classifier builds a hit classifier over the controller's current state.
// Callers must hold c.mu.
func (c *Controller) classifier() *Classifier {
	return &Classifier{
		Graph:             c.graph,
		Camera:            &c.camera,
		Overlay:           c.overlay,
		Selection:         &c.selection,
		EdgeCreateEnabled: c.opts.EnableEdgeCreate,
		RewireEnabled:     c.opts.EnableRewire,
	}
}

// SetGraph installs a fresh authoritative graph. A reload of the same
// graph clears the optimistic overlay; switching graphs additionally
// resets history, selection, and any in-flight gestures.
func (c *Controller) SetGraph(g *graph.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sameGraph := c.graph != nil && g != nil && c.graph.ID == g.ID
	c.overlay.Clear()
	if !sameGraph {
		c.history.Reset()
		c.selection.Clear()
		c.gestures = make(map[int]*Gesture)
		c.touch.reset()
	}
	c.graph = g
}

// Graph returns the current graph (authoritative plus committed local
// edits). Rendering reads node positions through NodePosition instead.
func (c *Controller) Graph() *graph.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph
}

// Camera returns a copy of the camera for rendering.
func (c *Controller) Camera() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camera
}

// Selection returns a copy of the current selection for rendering.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.selection
	if s.Member != nil {
		m := *s.Member
		s.Member = &m
	}
	return s
}

// NodePosition returns a node's effective world position, overlay first.
func (c *Controller) NodePosition(nodeID string) (Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.graph == nil {
		return Point{}, false
	}
	n := c.graph.Node(nodeID)
	if n == nil {
		return Point{}, false
	}
	return c.classifier().NodePos(n), true
}

// ToggleFullscreen flips the fullscreen flag for the shell.
func (c *Controller) ToggleFullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullscreen = !c.fullscreen
	return c.fullscreen
}

// Fullscreen reports the current fullscreen flag.
func (c *Controller) Fullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullscreen
}

// Flush waits for all in-flight store commits. Call on shutdown.
func (c *Controller) Flush() {
	c.commits.Wait()
}

// --- pointer event entry points ---

// PointerDown begins a gesture for the pointer, or hands control to the
// multi-touch coordinator when a second touch arrives.
func (c *Controller) PointerDown(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.graph == nil {
		return
	}
	if p.Coarse && c.touchDown(p) {
		return // pinch captured the pointer
	}

	hit := c.classifier().HitTest(p.Pos)
	if p.Coarse {
		c.armLongPress(p, hit)
	}

	switch hit.Kind {
	case TargetEmpty:
		c.gestures[p.ID] = &Gesture{Kind: GesturePan, Pointer: p.ID, Origin: p.Pos, Last: p.Pos}

	case TargetNodeBody:
		c.selection.SelectNode(hit.NodeID)
		n := c.graph.Node(hit.NodeID)
		pos := c.classifier().NodePos(n)
		world := c.camera.ToWorld(p.Pos)
		c.gestures[p.ID] = &Gesture{
			Kind: GestureNodeDrag, Pointer: p.ID, Origin: p.Pos, Last: p.Pos,
			NodeID: hit.NodeID, StartWorld: pos, GrabOffset: world.Sub(pos),
		}

	case TargetNodeRing:
		c.gestures[p.ID] = &Gesture{
			Kind: GestureEdgeCreate, Pointer: p.ID, Origin: p.Pos, Last: p.Pos,
			NodeID: hit.NodeID,
		}

	case TargetEdgeHandle:
		c.gestures[p.ID] = &Gesture{
			Kind: GestureEdgeRewire, Pointer: p.ID, Origin: p.Pos, Last: p.Pos,
			EdgeID: hit.EdgeID, End: hit.End,
		}

	case TargetHyperHandle:
		c.gestures[p.ID] = &Gesture{
			Kind: GestureHyperAttach, Pointer: p.ID, Origin: p.Pos, Last: p.Pos,
			EdgeID: hit.EdgeID, Role: hit.Role, AllowEdgeTargets: hit.AllowEdgeTargets,
		}

	case TargetEdgeBody:
		c.selection.SelectEdge(hit.EdgeID, hit.Scope)

	case TargetHyperMember:
		c.selection.SelectMember(MemberRef{EdgeID: hit.EdgeID, Role: hit.Role, MemberID: hit.MemberID})
	}
}

// PointerMove advances the pointer's gesture, or the pinch when one is
// active.
func (c *Controller) PointerMove(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Coarse {
		if c.touchMove(p) {
			return // pinch consumed the move
		}
		c.checkLongPressMove(p)
	}

	g := c.gestures[p.ID]
	if g == nil {
		return
	}
	delta := p.Pos.Sub(g.Last)
	if Dist(p.Pos, g.Origin) > dragThreshold {
		g.Moved = true
	}

	switch g.Kind {
	case GesturePan:
		c.camera.PanBy(delta)

	case GestureNodeDrag:
		world := c.camera.ToWorld(p.Pos).Sub(g.GrabOffset)
		c.overlay.Set(g.NodeID, world)

	case GestureEdgeCreate:
		cl := c.classifier()
		g.HoverNodeID, _, _ = cl.NearestNode(p.Pos, nodePickRadius, map[string]bool{g.NodeID: true})

	case GestureEdgeRewire:
		cl := c.classifier()
		g.HoverNodeID, _, _ = cl.NearestNode(p.Pos, nodePickRadius, nil)

	case GestureHyperAttach:
		cl := c.classifier()
		nodeID, nodeDist, nodeOK := cl.NearestNode(p.Pos, nodePickRadius, nil)
		g.HoverNodeID, g.HoverEdgeID = "", ""
		if nodeOK {
			g.HoverNodeID = nodeID
		}
		if g.AllowEdgeTargets {
			if edgeID, edgeDist, edgeOK := cl.NearestEdgeMidpoint(p.Pos, edgePickRadius, g.EdgeID); edgeOK {
				if !nodeOK || edgeDist < nodeDist {
					g.HoverNodeID, g.HoverEdgeID = "", edgeID
				}
			}
		}
	}
	g.Last = p.Pos
}

// PointerUp commits or discards the pointer's gesture. For coarse pointers
// a stationary release also feeds the tap-to-connect sequence.
func (c *Controller) PointerUp(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Coarse {
		c.touchUp(p)
	}

	g := c.gestures[p.ID]
	delete(c.gestures, p.ID)
	if g == nil {
		if p.Coarse && c.graph != nil {
			c.handleBareTap(p)
		}
		return
	}

	switch g.Kind {
	case GesturePan:
		// No structural commit.

	case GestureNodeDrag:
		world, ok := c.overlay.Get(g.NodeID)
		c.overlay.Delete(g.NodeID)
		if g.Moved && ok && Dist(world, g.StartWorld) > 0 {
			c.moveNodeLocked(g.NodeID, world.X, world.Y)
		} else if p.Coarse {
			c.handleTapOnNode(g.NodeID)
		}

	case GestureEdgeCreate:
		if g.HoverNodeID != "" {
			c.connectNodesLocked(g.NodeID, g.HoverNodeID)
		} else if p.Coarse && !g.Moved {
			c.touch.pendingSource = g.NodeID
			c.touch.pendingAttach = nil
		}

	case GestureEdgeRewire:
		if g.HoverNodeID != "" {
			c.reconnectEdgeLocked(g.EdgeID, g.End, g.HoverNodeID)
		}

	case GestureHyperAttach:
		switch {
		case g.HoverNodeID != "":
			c.attachMemberLocked(g.EdgeID, g.Role, g.HoverNodeID)
		case g.HoverEdgeID != "":
			c.attachMemberLocked(g.EdgeID, g.Role, g.HoverEdgeID)
		case p.Coarse && !g.Moved:
			c.touch.pendingAttach = &pendingAttach{
				EdgeID: g.EdgeID, Role: g.Role, AllowEdgeTargets: g.AllowEdgeTargets,
			}
			c.touch.pendingSource = ""
		}
	}
}

// PointerCancel discards the pointer's gesture without committing. No
// partial state persists.
func (c *Controller) PointerCancel(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Coarse {
		c.touchUp(p)
	}
	c.cancelGestureLocked(p.ID)
}

// Wheel applies one zoom tick anchored at the cursor. Negative deltaY
// (scroll up) zooms in by 10%, positive zooms out.
func (c *Controller) Wheel(anchor Point, deltaY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	factor := WheelZoomStep
	if deltaY > 0 {
		factor = 1 / WheelZoomStep
	}
	c.camera.ZoomBy(factor, anchor)
}

// cancelGestureLocked drops the pointer's gesture and any optimistic state
// it produced.
func (c *Controller) cancelGestureLocked(pointerID int) {
	g := c.gestures[pointerID]
	if g == nil {
		return
	}
	if g.Kind == GestureNodeDrag {
		c.overlay.Delete(g.NodeID)
	}
	delete(c.gestures, pointerID)
}

// cancelAllGesturesLocked drops every active gesture, such as when a
// second touch hands control to the pinch recognizer.
func (c *Controller) cancelAllGesturesLocked() {
	for id := range c.gestures {
		c.cancelGestureLocked(id)
	}
}

// --- imperative entry points (mirrored by the UI shell) ---

// SelectNode selects a node.
func (c *Controller) SelectNode(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.SelectNode(id)
}

// SelectEdge selects an edge with the given scope.
func (c *Controller) SelectEdge(id string, scope EdgeScope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.SelectEdge(id, scope)
}

// SelectHyperMember selects a hyperedge member segment.
func (c *Controller) SelectHyperMember(ref MemberRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.SelectMember(ref)
}

// ClearSelection resets the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
}

// CreateNode adds a node at a world position and commits it.
func (c *Controller) CreateNode(x, y float64, text string) *graph.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.graph == nil {
		return nil
	}
	c.history.Push(c.graph)
	n := c.graph.CreateNode(x, y, text)
	graphID := c.graph.ID
	c.commit("create node", func(ctx context.Context) error {
		_, err := c.store.CreateNode(ctx, graphID, x, y, text)
		return err
	})
	return n
}

// MoveNode moves a node to a world position and commits it.
func (c *Controller) MoveNode(id string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveNodeLocked(id, x, y)
}

// ConnectNodes creates an edge from sourceID to targetID.
func (c *Controller) ConnectNodes(sourceID, targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectNodesLocked(sourceID, targetID)
}

// ReconnectEdge points one end of an edge at a different node.
func (c *Controller) ReconnectEdge(edgeID string, end graph.Role, nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconnectEdgeLocked(edgeID, end, nodeID)
}

// AttachHyperMember adds a member id to one end of a hyperedge.
func (c *Controller) AttachHyperMember(edgeID string, role graph.Role, memberID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachMemberLocked(edgeID, role, memberID)
}

// DetachHyperMember removes a member id from one end of a hyperedge.
// Removing the last member is rejected as a no-op.
func (c *Controller) DetachHyperMember(edgeID string, role graph.Role, memberID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detachMemberLocked(edgeID, role, memberID)
}

// DeleteNode removes a node and its incident edges.
func (c *Controller) DeleteNode(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteNodeLocked(id)
}

// DeleteEdge removes an edge.
func (c *Controller) DeleteEdge(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteEdgeLocked(id)
}

// Undo restores the most recent history snapshot and commits the restore.
func (c *Controller) Undo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.history.Undo(c.graph)
	if !ok {
		return false
	}
	c.restoreLocked(snap)
	return true
}

// Redo re-applies the most recently undone snapshot.
func (c *Controller) Redo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.history.Redo(c.graph)
	if !ok {
		return false
	}
	c.restoreLocked(snap)
	return true
}

// CanUndo reports whether an undo snapshot is available.
func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanUndo()
}

// CanRedo reports whether a redo snapshot is available.
func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanRedo()
}

// restoreLocked installs a history snapshot as the live graph and pushes
// the whole-graph replace to the store.
func (c *Controller) restoreLocked(snap *graph.Graph) {
	c.history.BeginRestore()
	defer c.history.EndRestore()

	c.graph = snap
	c.overlay.Clear()
	c.pruneSelectionLocked()

	replica := snap.Clone()
	c.commit("restore graph", func(ctx context.Context) error {
		return c.store.ReplaceGraph(ctx, replica)
	})
}

// pruneSelectionLocked drops selection entries whose targets no longer
// exist after a restore.
func (c *Controller) pruneSelectionLocked() {
	if c.selection.NodeID != "" && c.graph.Node(c.selection.NodeID) == nil {
		c.selection.NodeID = ""
	}
	if c.selection.EdgeID != "" && c.graph.Edge(c.selection.EdgeID) == nil {
		c.selection.EdgeID = ""
		c.selection.EdgeScope = ScopeNone
	}
	if c.selection.Member != nil && c.graph.Edge(c.selection.Member.EdgeID) == nil {
		c.selection.Member = nil
	}
}

// --- mutation primitives (history push precedes the outbound request) ---

func (c *Controller) moveNodeLocked(id string, x, y float64) {
	n := c.graph.Node(id)
	if n == nil {
		return
	}
	c.history.Push(c.graph)
	n.X, n.Y = x, y
	graphID := c.graph.ID
	c.commit("move node", func(ctx context.Context) error {
		return c.store.UpdateNodePosition(ctx, graphID, id, x, y)
	})
}

func (c *Controller) connectNodesLocked(sourceID, targetID string) {
	if sourceID == targetID {
		return
	}
	if c.graph.Node(sourceID) == nil || c.graph.Node(targetID) == nil {
		return
	}
	c.history.Push(c.graph)
	e := c.graph.CreateEdge(sourceID, targetID, "")
	c.selection.SelectEdge(e.ID, ScopeMainline)
	graphID := c.graph.ID
	c.commit("create edge", func(ctx context.Context) error {
		_, err := c.store.CreateEdge(ctx, graphID, []string{sourceID}, []string{targetID})
		return err
	})
}

func (c *Controller) reconnectEdgeLocked(edgeID string, end graph.Role, nodeID string) {
	e := c.graph.Edge(edgeID)
	if e == nil || c.graph.Node(nodeID) == nil {
		return
	}
	if (end == graph.RoleTail && e.SourceID == nodeID) || (end == graph.RoleHead && e.TargetID == nodeID) {
		return
	}
	c.history.Push(c.graph)
	e.SetEndpoint(end, nodeID)

	var patch graph.EdgePatch
	id := nodeID
	if end == graph.RoleTail {
		patch.SourceID = &id
	} else {
		patch.TargetID = &id
	}
	graphID := c.graph.ID
	c.commit("reconnect edge", func(ctx context.Context) error {
		_, err := c.store.UpdateEdge(ctx, graphID, edgeID, patch)
		return err
	})
}

func (c *Controller) attachMemberLocked(edgeID string, role graph.Role, memberID string) {
	e := c.graph.Edge(edgeID)
	if e == nil || memberID == edgeID {
		return
	}
	if c.graph.Node(memberID) == nil && c.graph.Edge(memberID) == nil {
		return
	}
	if e.HasMember(role, memberID) {
		return // set semantics: already a member
	}
	c.history.Push(c.graph)
	e.AddMember(role, memberID)

	var patch graph.EdgePatch
	if role == graph.RoleTail {
		patch.AddSourceIDs = []string{memberID}
	} else {
		patch.AddTargetIDs = []string{memberID}
	}
	graphID := c.graph.ID
	c.commit("attach member", func(ctx context.Context) error {
		_, err := c.store.UpdateEdge(ctx, graphID, edgeID, patch)
		return err
	})
}

func (c *Controller) detachMemberLocked(edgeID string, role graph.Role, memberID string) {
	e := c.graph.Edge(edgeID)
	if e == nil || !e.HasMember(role, memberID) {
		return
	}
	if len(e.Members(role)) == 1 {
		return // never empty a member set
	}
	c.history.Push(c.graph)
	if err := e.RemoveMember(role, memberID); err != nil {
		return
	}

	var patch graph.EdgePatch
	if role == graph.RoleTail {
		patch.RemoveSourceIDs = []string{memberID}
	} else {
		patch.RemoveTargetIDs = []string{memberID}
	}
	graphID := c.graph.ID
	c.commit("detach member", func(ctx context.Context) error {
		_, err := c.store.UpdateEdge(ctx, graphID, edgeID, patch)
		return err
	})
}

func (c *Controller) deleteNodeLocked(id string) {
	if c.graph.Node(id) == nil {
		return
	}
	c.history.Push(c.graph)
	c.graph.RemoveNode(id)
	c.selection.DropIf(id)
	c.overlay.Delete(id)
	c.touch.dropPending(id)
	graphID := c.graph.ID
	c.commit("delete node", func(ctx context.Context) error {
		return c.store.DeleteNode(ctx, graphID, id)
	})
}

func (c *Controller) deleteEdgeLocked(id string) {
	if c.graph.Edge(id) == nil {
		return
	}
	c.history.Push(c.graph)
	c.graph.RemoveEdge(id)
	c.selection.DropIf(id)
	c.touch.dropPending(id)
	graphID := c.graph.ID
	c.commit("delete edge", func(ctx context.Context) error {
		return c.store.DeleteEdge(ctx, graphID, id)
	})
}

// commit issues an outbound store request without blocking further
// interaction. History has already been pushed by the caller, so undo is
// available regardless of how the request fares.
func (c *Controller) commit(op string, fn func(context.Context) error) {
	c.commits.Add(1)
	go func() {
		defer c.commits.Done()
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			c.log.Warnw("commit failed", "op", op, "error", err)
			c.status(op + " failed: " + err.Error())
		}
	}()
}

// status forwards a transient message to the shell.
func (c *Controller) status(msg string) {
	if c.opts.OnStatus != nil {
		c.opts.OnStatus(msg)
	}
}

// clampZoom is kept for callers applying raw zoom values (pinch).
func clampZoom(z float64) float64 {
	return util.ClampFloat64(z, MinZoom, MaxZoom)
}
