// Package viewport provides the camera that maps between image space
// (pixels of the source raster) and view space (pixels of the display
// surface). The camera knows nothing about the crop rectangle.
package viewport

import (
	"math"

	"snapcrop/pkg/geometry"
)

const (
	// MinZoom and MaxZoom bound the zoom multiplier.
	MinZoom = 0.1
	MaxZoom = 10.0

	// zoomStep is the per-wheel-notch zoom factor increment.
	zoomStep = 0.1

	// fitMargin is the fixed view-space margin left around the image
	// when computing the base scale.
	fitMargin = 20.0
)

// Camera holds the pan/zoom state of the viewport. Zoom is a positive
// multiplier on top of the base (fit-to-viewport) scale. PanX/PanY are
// view-space offsets of the image's optical center from the viewport
// center.
type Camera struct {
	Zoom float64
	PanX float64
	PanY float64

	viewW, viewH float64
	imgW, imgH   float64
}

// NewCamera creates a camera at zoom 1 with no pan.
func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

// SetViewportSize records the display surface dimensions in view pixels.
func (c *Camera) SetViewportSize(w, h float64) {
	c.viewW = w
	c.viewH = h
}

// SetImageSize records the source image dimensions in image pixels.
func (c *Camera) SetImageSize(w, h float64) {
	c.imgW = w
	c.imgH = h
}

// BaseScale returns the zoom-independent scale that fits the whole image
// inside the viewport minus a fixed margin, preserving aspect ratio.
// Returns 1 when the viewport or image area is degenerate, so the
// interaction loop never divides by zero.
func (c *Camera) BaseScale() float64 {
	availW := c.viewW - 2*fitMargin
	availH := c.viewH - 2*fitMargin
	if availW <= 0 || availH <= 0 || c.imgW <= 0 || c.imgH <= 0 {
		return 1
	}
	return math.Min(availW/c.imgW, availH/c.imgH)
}

// Scale returns the total image-to-view scale factor.
func (c *Camera) Scale() float64 {
	return c.BaseScale() * c.Zoom
}

// ToView converts an image-space point to view space.
func (c *Camera) ToView(p geometry.Point2D) geometry.Point2D {
	s := c.Scale()
	return geometry.Point2D{
		X: c.viewW/2 + c.PanX + (p.X-c.imgW/2)*s,
		Y: c.viewH/2 + c.PanY + (p.Y-c.imgH/2)*s,
	}
}

// ToImage converts a view-space point to image space. Exact inverse of
// ToView.
func (c *Camera) ToImage(p geometry.Point2D) geometry.Point2D {
	s := c.Scale()
	return geometry.Point2D{
		X: (p.X-c.viewW/2-c.PanX)/s + c.imgW/2,
		Y: (p.Y-c.viewH/2-c.PanY)/s + c.imgH/2,
	}
}

// ViewRect projects an image-space rectangle to view space.
func (c *Camera) ViewRect(r geometry.Rect) geometry.Rect {
	tl := c.ToView(r.TopLeft())
	s := c.Scale()
	return geometry.Rect{X: tl.X, Y: tl.Y, Width: r.Width * s, Height: r.Height * s}
}

// ZoomAt multiplies the zoom by (1 + 0.1*deltaSign), clamped to
// [MinZoom, MaxZoom], then recomputes the pan so that the image point
// currently under viewPt stays under viewPt after the zoom.
func (c *Camera) ZoomAt(viewPt geometry.Point2D, deltaSign float64) {
	anchor := c.ToImage(viewPt)
	c.Zoom = geometry.Clamp(c.Zoom*(1+zoomStep*deltaSign), MinZoom, MaxZoom)

	// Solve the ToView equation for pan, holding the anchor fixed.
	s := c.Scale()
	c.PanX = viewPt.X - c.viewW/2 - (anchor.X-c.imgW/2)*s
	c.PanY = viewPt.Y - c.viewH/2 - (anchor.Y-c.imgH/2)*s
}

// Pan shifts the camera by a view-space delta. Pan offsets are already
// in view units, so no scale conversion applies.
func (c *Camera) Pan(dx, dy float64) {
	c.PanX += dx
	c.PanY += dy
}

// Reset restores zoom 1 and centered pan. Called whenever a new image
// is loaded.
func (c *Camera) Reset() {
	c.Zoom = 1
	c.PanX = 0
	c.PanY = 0
}
