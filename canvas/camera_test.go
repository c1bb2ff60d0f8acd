package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomClampUnderRepeatedTicks(t *testing.T) {
	cam := NewCamera()
	anchor := Point{X: 400, Y: 300}

	for i := 0; i < 100; i++ {
		cam.ZoomBy(WheelZoomStep, anchor)
		assert.LessOrEqual(t, cam.Zoom, MaxZoom)
	}
	assert.Equal(t, MaxZoom, cam.Zoom)

	// No drift while pinned at the bound.
	pan := cam.Pan
	cam.ZoomBy(WheelZoomStep, anchor)
	assert.Equal(t, MaxZoom, cam.Zoom)
	assert.Equal(t, pan, cam.Pan)

	for i := 0; i < 100; i++ {
		cam.ZoomBy(1/WheelZoomStep, anchor)
		assert.GreaterOrEqual(t, cam.Zoom, MinZoom)
	}
	assert.Equal(t, MinZoom, cam.Zoom)
}

func TestZoomAnchorInvariance(t *testing.T) {
	cam := Camera{Pan: Point{X: 37, Y: -12}, Zoom: 1.7}
	anchor := Point{X: 250, Y: 140}
	before := cam.ToWorld(anchor)

	cam.ZoomBy(1.3, anchor)
	after := cam.ToWorld(anchor)

	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestWheelZoomRoundTrip(t *testing.T) {
	cam := NewCamera()
	anchor := Point{X: 100, Y: 100}

	cam.ZoomBy(WheelZoomStep, anchor)
	assert.InDelta(t, 1.1, cam.Zoom, 1e-9)

	cam.ZoomBy(1/WheelZoomStep, anchor)
	assert.InDelta(t, 1.0, cam.Zoom, 1e-9)
}

func TestToWorldToScreenRoundTrip(t *testing.T) {
	cam := Camera{Pan: Point{X: -80, Y: 45}, Zoom: 2.5}
	p := Point{X: 123.4, Y: -56.7}
	back := cam.ToWorld(cam.ToScreen(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestPanBy(t *testing.T) {
	cam := NewCamera()
	cam.PanBy(Point{X: 10, Y: -5})
	cam.PanBy(Point{X: 2, Y: 3})
	assert.Equal(t, Point{X: 12, Y: -2}, cam.Pan)
}
