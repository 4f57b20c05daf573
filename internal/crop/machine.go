// Package crop owns the crop rectangle and the pointer-driven state
// machine that mutates it. All pointer events arrive in view space and
// are converted through the camera; the crop rectangle itself lives in
// image space.
package crop

import (
	"snapcrop/internal/viewport"
	"snapcrop/pkg/geometry"
)

const (
	// MinSize is the smallest crop edge length in image-space units.
	MinSize = 10.0

	// handleHitHalf is the half-width of the square view-space hit zone
	// around each corner handle.
	handleHitHalf = 12.0

	// defaultCoverage is the fraction of the shorter image dimension
	// covered by the default crop square on image load.
	defaultCoverage = 0.8
)

// Mode identifies the current interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeMoving
	ModeResizing
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeMoving:
		return "moving"
	case ModeResizing:
		return "resizing"
	case ModePanning:
		return "panning"
	default:
		return "idle"
	}
}

// Corner identifies which corner handle a resize gesture grabbed.
// Hit-testing checks corners in this order; the first hit wins.
type Corner int

const (
	CornerTL Corner = iota
	CornerTR
	CornerBL
	CornerBR
)

// Observer receives a snapshot of the crop rectangle after every mutation.
type Observer func(geometry.Rect)

// Machine is the crop interaction state machine. It holds the canonical
// mutable crop rectangle and broadcasts value snapshots on change; no
// other component mutates the crop.
type Machine struct {
	camera *viewport.Camera

	rect       geometry.Rect
	imgW, imgH float64

	mode   Mode
	corner Corner
	anchor geometry.Point2D // view-space point of the last event

	observer Observer
}

// NewMachine creates an idle machine routing coordinates through cam.
func NewMachine(cam *viewport.Camera) *Machine {
	return &Machine{camera: cam}
}

// SetObserver registers the single observer notified on every crop
// mutation. Pass nil to detach.
func (m *Machine) SetObserver(fn Observer) {
	m.observer = fn
}

// Rect returns a snapshot of the current crop rectangle.
func (m *Machine) Rect() geometry.Rect {
	return m.rect
}

// HasCrop reports whether a crop rectangle is defined.
func (m *Machine) HasCrop() bool {
	return !m.rect.Empty()
}

// Mode returns the current interaction mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// DefaultRect returns the initial crop for an image: a centered square
// covering 80% of the shorter image dimension.
func DefaultRect(imgW, imgH float64) geometry.Rect {
	size := imgW
	if imgH < size {
		size = imgH
	}
	size *= defaultCoverage
	return geometry.Rect{
		X:      (imgW - size) / 2,
		Y:      (imgH - size) / 2,
		Width:  size,
		Height: size,
	}
}

// ResetForImage installs the default crop for a newly loaded image and
// discards any in-flight gesture.
func (m *Machine) ResetForImage(imgW, imgH float64) {
	m.imgW = imgW
	m.imgH = imgH
	m.mode = ModeIdle
	m.rect = DefaultRect(imgW, imgH)
	m.notify()
}

// PointerDown starts a gesture. Corner handles are hit-tested first
// (tl, tr, bl, br), then the crop body, and anything else starts a
// background pan.
func (m *Machine) PointerDown(viewPt geometry.Point2D) {
	m.anchor = viewPt

	corners := [4]struct {
		c Corner
		p geometry.Point2D
	}{
		{CornerTL, m.rect.TopLeft()},
		{CornerTR, m.rect.TopRight()},
		{CornerBL, m.rect.BottomLeft()},
		{CornerBR, m.rect.BottomRight()},
	}
	for _, h := range corners {
		vp := m.camera.ToView(h.p)
		if viewPt.X >= vp.X-handleHitHalf && viewPt.X <= vp.X+handleHitHalf &&
			viewPt.Y >= vp.Y-handleHitHalf && viewPt.Y <= vp.Y+handleHitHalf {
			m.mode = ModeResizing
			m.corner = h.c
			return
		}
	}

	if m.camera.ViewRect(m.rect).ContainsInterior(viewPt) {
		m.mode = ModeMoving
		return
	}
	m.mode = ModePanning
}

// PointerMove advances the active gesture. Deltas are applied
// incrementally from the previous event, not cumulatively from the
// gesture start, so slow and fast motion accumulate identically.
func (m *Machine) PointerMove(viewPt geometry.Point2D) {
	switch m.mode {
	case ModePanning:
		// Pan deltas are already view-space units.
		m.camera.Pan(viewPt.X-m.anchor.X, viewPt.Y-m.anchor.Y)
		m.anchor = viewPt

	case ModeMoving:
		cur := m.camera.ToImage(viewPt)
		prev := m.camera.ToImage(m.anchor)
		m.rect.X = geometry.Clamp(m.rect.X+cur.X-prev.X, 0, m.imgW-m.rect.Width)
		m.rect.Y = geometry.Clamp(m.rect.Y+cur.Y-prev.Y, 0, m.imgH-m.rect.Height)
		m.anchor = viewPt
		m.notify()

	case ModeResizing:
		m.resizeTo(m.camera.ToImage(viewPt))
		m.anchor = viewPt
		m.notify()
	}
}

// PointerUp unconditionally returns to idle, discarding the gesture.
func (m *Machine) PointerUp() {
	m.mode = ModeIdle
}

// resizeTo applies a resize drag toward pt. Each corner drags against a
// fixed opposite corner that never moves for the whole gesture. The
// moving corner is floored at MinSize but intentionally not clamped to
// the image bounds; downstream sampling clamps to bounds itself.
func (m *Machine) resizeTo(pt geometry.Point2D) {
	switch m.corner {
	case CornerBR:
		// Fixed corner: (x, y).
		m.rect.Width = maxf(MinSize, pt.X-m.rect.X)
		m.rect.Height = maxf(MinSize, pt.Y-m.rect.Y)

	case CornerTL:
		// Fixed corner: (x+w, y+h).
		fx := m.rect.X + m.rect.Width
		fy := m.rect.Y + m.rect.Height
		m.rect.X = minf(fx-MinSize, pt.X)
		m.rect.Y = minf(fy-MinSize, pt.Y)
		m.rect.Width = fx - m.rect.X
		m.rect.Height = fy - m.rect.Y

	case CornerTR:
		// Fixed corner: (x, y+h).
		fy := m.rect.Y + m.rect.Height
		m.rect.Y = minf(fy-MinSize, pt.Y)
		m.rect.Width = maxf(MinSize, pt.X-m.rect.X)
		m.rect.Height = fy - m.rect.Y

	case CornerBL:
		// Fixed corner: (x+w, y).
		fx := m.rect.X + m.rect.Width
		m.rect.X = minf(fx-MinSize, pt.X)
		m.rect.Width = fx - m.rect.X
		m.rect.Height = maxf(MinSize, pt.Y-m.rect.Y)
	}
}

func (m *Machine) notify() {
	if m.observer != nil {
		m.observer(m.rect)
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
