package viewport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"snapcrop/pkg/geometry"
)

// newTestCamera is an 840x840 viewport over an 800x800 image, which makes
// the base scale exactly 1 (840 - 2*20 margin = 800).
func newTestCamera() *Camera {
	c := NewCamera()
	c.SetViewportSize(840, 840)
	c.SetImageSize(800, 800)
	return c
}

func TestBaseScaleFitsImage(t *testing.T) {
	c := newTestCamera()
	require.Equal(t, 1.0, c.BaseScale())

	// Wide image limited by width.
	c.SetImageSize(1600, 800)
	require.InDelta(t, 0.5, c.BaseScale(), 1e-12)

	// Tall image limited by height.
	c.SetImageSize(800, 1600)
	require.InDelta(t, 0.5, c.BaseScale(), 1e-12)
}

func TestBaseScaleDegenerateFallsBackToOne(t *testing.T) {
	c := NewCamera()
	require.Equal(t, 1.0, c.BaseScale(), "no sizes set")

	c.SetViewportSize(30, 30) // smaller than twice the margin
	c.SetImageSize(800, 800)
	require.Equal(t, 1.0, c.BaseScale())

	c.SetViewportSize(840, 840)
	c.SetImageSize(0, 800)
	require.Equal(t, 1.0, c.BaseScale())
}

func TestToViewToImageRoundTrip(t *testing.T) {
	c := newTestCamera()

	points := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: 400, Y: 400},
		{X: 800, Y: 800},
		{X: 123.456, Y: 654.321},
	}

	for _, zoom := range []float64{0.1, 0.5, 1, 2.7, 10} {
		c.Zoom = zoom
		c.PanX = 33
		c.PanY = -17
		for _, p := range points {
			got := c.ToImage(c.ToView(p))
			require.True(t, scalar.EqualWithinAbs(p.X, got.X, 1e-9), "zoom %v point %v: X %v", zoom, p, got.X)
			require.True(t, scalar.EqualWithinAbs(p.Y, got.Y, 1e-9), "zoom %v point %v: Y %v", zoom, p, got.Y)
		}
	}
}

func TestZoomAtHoldsAnchor(t *testing.T) {
	c := newTestCamera()

	viewPt := geometry.NewPoint2D(300, 550)
	for i := 0; i < 15; i++ {
		anchor := c.ToImage(viewPt)
		c.ZoomAt(viewPt, 1)
		after := c.ToView(anchor)
		require.True(t, scalar.EqualWithinAbs(viewPt.X, after.X, 1e-9), "step %d: X drifted to %v", i, after.X)
		require.True(t, scalar.EqualWithinAbs(viewPt.Y, after.Y, 1e-9), "step %d: Y drifted to %v", i, after.Y)
	}
	for i := 0; i < 30; i++ {
		anchor := c.ToImage(viewPt)
		c.ZoomAt(viewPt, -1)
		after := c.ToView(anchor)
		require.True(t, scalar.EqualWithinAbs(viewPt.X, after.X, 1e-9), "step %d: X drifted to %v", i, after.X)
		require.True(t, scalar.EqualWithinAbs(viewPt.Y, after.Y, 1e-9), "step %d: Y drifted to %v", i, after.Y)
	}
}

func TestZoomAtClampsRange(t *testing.T) {
	c := newTestCamera()
	pt := geometry.NewPoint2D(420, 420)

	for i := 0; i < 100; i++ {
		c.ZoomAt(pt, 1)
	}
	require.Equal(t, MaxZoom, c.Zoom)

	for i := 0; i < 200; i++ {
		c.ZoomAt(pt, -1)
	}
	require.Equal(t, MinZoom, c.Zoom)
}

func TestZoomAtStepFactor(t *testing.T) {
	c := newTestCamera()
	c.ZoomAt(geometry.NewPoint2D(420, 420), 1)
	require.InDelta(t, 1.1, c.Zoom, 1e-12)
	c.ZoomAt(geometry.NewPoint2D(420, 420), -1)
	require.InDelta(t, 1.1*0.9, c.Zoom, 1e-12)
}

func TestViewRectScalesAndOffsets(t *testing.T) {
	c := newTestCamera()

	// Base scale 1, zoom 1: image (x,y) maps to view (x+20, y+20).
	got := c.ViewRect(geometry.NewRect(100, 200, 50, 60))
	require.InDelta(t, 120.0, got.X, 1e-12)
	require.InDelta(t, 220.0, got.Y, 1e-12)
	require.InDelta(t, 50.0, got.Width, 1e-12)
	require.InDelta(t, 60.0, got.Height, 1e-12)

	c.Zoom = 2
	got = c.ViewRect(geometry.NewRect(0, 0, 800, 800))
	require.InDelta(t, 1600.0, got.Width, 1e-12)
	require.InDelta(t, 1600.0, got.Height, 1e-12)
}

func TestPanAndReset(t *testing.T) {
	c := newTestCamera()
	c.Pan(15, -8)
	c.Pan(5, 3)
	require.Equal(t, 20.0, c.PanX)
	require.Equal(t, -5.0, c.PanY)

	c.Zoom = 4
	c.Reset()
	require.Equal(t, 1.0, c.Zoom)
	require.Equal(t, 0.0, c.PanX)
	require.Equal(t, 0.0, c.PanY)
}
