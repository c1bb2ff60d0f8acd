package canvas

import (
	"time"

	"github.com/tbrumbaugh5396/graph-canvas/graph"
)

// Long-press and pinch tuning.
const (
	longPressDelay         = 650 * time.Millisecond
	longPressMoveThreshold = 18.0 // screen px
)

// pendingAttach is an armed tap-to-connect hyperedge attachment: the first
// tap landed on an edge's attach handle, the second will pick the member.
type pendingAttach struct {
	EdgeID           string
	Role             graph.Role
	AllowEdgeTargets bool
}

// pinchState is the baseline captured when a second touch arrives: the
// two-point distance, the zoom at that instant, and the world point under
// the touch midpoint. Updates scale the baseline zoom by the distance
// ratio and re-derive pan so the captured world point stays under the
// midpoint.
type pinchState struct {
	ids      [2]int
	baseDist float64
	baseZoom float64
	worldMid Point
}

// longPressState is an armed long-press-to-delete timer plus the movement
// tracking needed to cancel it.
type longPressState struct {
	timer   Timer
	pointer int
	origin  Point
	nodeID  string
	edgeID  string
}

// touchState is the multi-touch coordinator's working set: every active
// touch point, the pinch baseline, the long-press timer, and the armed
// tap-to-connect state.
type touchState struct {
	points        map[int]Point
	pinch         *pinchState
	longPress     *longPressState
	pendingSource string // armed connect-source node id
	pendingAttach *pendingAttach
}

func newTouchState() touchState {
	return touchState{points: make(map[int]Point)}
}

func (t *touchState) reset() {
	t.stopLongPress()
	t.points = make(map[int]Point)
	t.pinch = nil
	t.pendingSource = ""
	t.pendingAttach = nil
}

func (t *touchState) stopLongPress() {
	if t.longPress != nil {
		t.longPress.timer.Stop()
		t.longPress = nil
	}
}

// dropPending clears any armed tap-to-connect state referencing id, such
// as after the element is deleted.
func (t *touchState) dropPending(id string) {
	if t.pendingSource == id {
		t.pendingSource = ""
	}
	if t.pendingAttach != nil && t.pendingAttach.EdgeID == id {
		t.pendingAttach = nil
	}
}

// touchDown registers a touch point. When it is the second active touch,
// single-pointer gestures are cancelled and pinch tracking begins; returns
// true when the pinch captured the pointer.
func (c *Controller) touchDown(p Pointer) bool {
	c.touch.points[p.ID] = p.Pos
	if len(c.touch.points) < 2 {
		return false
	}
	c.touch.stopLongPress()
	c.cancelAllGesturesLocked()
	if c.touch.pinch == nil {
		c.beginPinchLocked()
	}
	return true
}

// beginPinchLocked captures the pinch baseline from the first two active
// touch points.
func (c *Controller) beginPinchLocked() {
	var ids [2]int
	i := 0
	for id := range c.touch.points {
		if i == 2 {
			break
		}
		ids[i] = id
		i++
	}
	if i < 2 {
		return
	}
	a := c.touch.points[ids[0]]
	b := c.touch.points[ids[1]]
	d := Dist(a, b)
	if d == 0 {
		return
	}
	mid := Mid(a, b)
	c.touch.pinch = &pinchState{
		ids:      ids,
		baseDist: d,
		baseZoom: c.camera.Zoom,
		worldMid: c.camera.ToWorld(mid),
	}
}

// touchMove updates a tracked touch point and, while a pinch is active,
// applies the zoom/pan update. Returns true when the pinch consumed the
// move.
func (c *Controller) touchMove(p Pointer) bool {
	if _, tracked := c.touch.points[p.ID]; tracked {
		c.touch.points[p.ID] = p.Pos
	}
	pinch := c.touch.pinch
	if pinch == nil {
		return false
	}
	a, okA := c.touch.points[pinch.ids[0]]
	b, okB := c.touch.points[pinch.ids[1]]
	if !okA || !okB {
		return true
	}
	d := Dist(a, b)
	if d == 0 {
		return true
	}
	zoom := clampZoom(pinch.baseZoom * d / pinch.baseDist)
	mid := Mid(a, b)
	c.camera.Zoom = zoom
	c.camera.Pan = mid.Sub(pinch.worldMid.Scale(zoom))
	return true
}

// touchUp forgets a touch point; dropping below two touches clears the
// pinch baseline, and a pending long-press for the pointer is cancelled.
func (c *Controller) touchUp(p Pointer) {
	delete(c.touch.points, p.ID)
	if len(c.touch.points) < 2 {
		c.touch.pinch = nil
	}
	if c.touch.longPress != nil && c.touch.longPress.pointer == p.ID {
		c.touch.stopLongPress()
	}
}

// armLongPress starts the long-press-to-delete timer for a single-touch
// press over a node or edge. Only wired when deletion is enabled.
func (c *Controller) armLongPress(p Pointer, hit HitTarget) {
	if !c.opts.EnableDelete || len(c.touch.points) > 1 {
		return
	}
	lp := &longPressState{pointer: p.ID, origin: p.Pos}
	switch hit.Kind {
	case TargetNodeBody:
		lp.nodeID = hit.NodeID
	case TargetEdgeBody:
		lp.edgeID = hit.EdgeID
	default:
		return
	}
	c.touch.stopLongPress()
	pointerID := p.ID
	lp.timer = c.clock.AfterFunc(longPressDelay, func() {
		c.fireLongPress(pointerID)
	})
	c.touch.longPress = lp
}

// checkLongPressMove cancels an armed long-press once the pointer drifts
// past the movement threshold.
func (c *Controller) checkLongPressMove(p Pointer) {
	lp := c.touch.longPress
	if lp == nil || lp.pointer != p.ID {
		return
	}
	if Dist(p.Pos, lp.origin) > longPressMoveThreshold {
		c.touch.stopLongPress()
	}
}

// fireLongPress runs on timer expiry: the struck node or edge is deleted
// and the press's in-progress gesture is discarded.
func (c *Controller) fireLongPress(pointerID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lp := c.touch.longPress
	if lp == nil || lp.pointer != pointerID || c.graph == nil {
		return
	}
	c.touch.longPress = nil
	c.cancelGestureLocked(pointerID)

	if lp.nodeID != "" {
		c.deleteNodeLocked(lp.nodeID)
	} else if lp.edgeID != "" {
		c.deleteEdgeLocked(lp.edgeID)
	}
}

// handleTapOnNode completes a tap-to-connect sequence ending on a node: a
// pending connect source links to it, a pending hyperedge attach gains it
// as a member.
func (c *Controller) handleTapOnNode(nodeID string) {
	if src := c.touch.pendingSource; src != "" {
		c.touch.pendingSource = ""
		if src != nodeID {
			c.connectNodesLocked(src, nodeID)
		}
		return
	}
	if pa := c.touch.pendingAttach; pa != nil {
		c.touch.pendingAttach = nil
		c.attachMemberLocked(pa.EdgeID, pa.Role, nodeID)
	}
}

// handleBareTap handles a stationary coarse release that never began a
// gesture (edge bodies, member segments): a pending hyperedge attach may
// complete on another edge's member region when edge targets are allowed.
func (c *Controller) handleBareTap(p Pointer) {
	pa := c.touch.pendingAttach
	if pa == nil || !pa.AllowEdgeTargets {
		return
	}
	hit := c.classifier().HitTest(p.Pos)
	switch hit.Kind {
	case TargetEdgeBody, TargetHyperMember:
		if hit.EdgeID != pa.EdgeID {
			c.touch.pendingAttach = nil
			c.attachMemberLocked(pa.EdgeID, pa.Role, hit.EdgeID)
		}
	}
}
