package canvas

import (
	"github.com/tbrumbaugh5396/graph-canvas/internal/util"
)

// Zoom bounds. ZoomBy clamps to this range; composing increments never
// overshoots or drifts at a bound.
const (
	MinZoom = 0.25
	MaxZoom = 4.0

	// Wheel ticks scale by ±10%.
	WheelZoomStep = 1.1
)

// Camera maps between screen pixels and world coordinates: a pan offset in
// screen pixels plus a zoom scale.
type Camera struct {
	Pan  Point   `json:"pan"`
	Zoom float64 `json:"zoom"`
}

// NewCamera returns a camera at the origin with unit zoom.
func NewCamera() Camera {
	return Camera{Zoom: 1.0}
}

// ToWorld converts a screen point to world coordinates.
func (c Camera) ToWorld(screen Point) Point {
	return Point{
		X: (screen.X - c.Pan.X) / c.Zoom,
		Y: (screen.Y - c.Pan.Y) / c.Zoom,
	}
}

// ToScreen converts a world point to screen coordinates.
func (c Camera) ToScreen(world Point) Point {
	return Point{
		X: world.X*c.Zoom + c.Pan.X,
		Y: world.Y*c.Zoom + c.Pan.Y,
	}
}

// PanBy shifts the pan offset by a screen-pixel delta.
func (c *Camera) PanBy(delta Point) {
	c.Pan = c.Pan.Add(delta)
}

// ZoomBy multiplies the zoom by factor, clamped to [MinZoom, MaxZoom],
// keeping the world coordinate under the anchor screen point fixed so the
// content under the cursor does not jump.
func (c *Camera) ZoomBy(factor float64, anchor Point) {
	next := util.ClampFloat64(c.Zoom*factor, MinZoom, MaxZoom)
	if next == c.Zoom {
		return
	}
	world := c.ToWorld(anchor)
	c.Zoom = next
	c.Pan = Point{
		X: anchor.X - world.X*next,
		Y: anchor.Y - world.Y*next,
	}
}
