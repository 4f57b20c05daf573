package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"snapcrop/internal/app"
	"snapcrop/internal/crop"
	"snapcrop/pkg/geometry"
)

// CropCanvas displays the session image with the crop overlay and routes
// pointer and wheel events into the crop state machine. All drawing goes
// through the pure Render function; the widget itself holds no pixel
// state.
type CropCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster
}

// NewCropCanvas creates the canvas bound to the session state.
func NewCropCanvas(state *app.State) *CropCanvas {
	cc := &CropCanvas{state: state}
	cc.raster = fynecanvas.NewRaster(cc.draw)
	cc.raster.ScaleMode = fynecanvas.ImageScalePixels
	cc.ExtendBaseWidget(cc)

	state.On(app.EventImageLoaded, func(interface{}) { cc.Refresh() })
	state.On(app.EventCropChanged, func(interface{}) { cc.Refresh() })
	state.On(app.EventCameraChanged, func(interface{}) { cc.Refresh() })

	return cc
}

// draw is the raster callback; it re-renders the whole surface from the
// current snapshot.
func (cc *CropCanvas) draw(w, h int) image.Image {
	cam := cc.state.Camera
	cam.SetViewportSize(float64(w), float64(h))

	var src image.Image
	if cc.state.Source != nil {
		src = cc.state.Source.Image
	}
	return Render(w, h, cam, src, cc.state.Crop.Rect(), cc.state.Crop.HasCrop())
}

// MouseDown starts a gesture (desktop.Mouseable).
func (cc *CropCanvas) MouseDown(ev *desktop.MouseEvent) {
	if !cc.state.HasImage() {
		return
	}
	cc.state.Crop.PointerDown(eventPoint(ev))
}

// MouseUp ends the active gesture (desktop.Mouseable).
func (cc *CropCanvas) MouseUp(*desktop.MouseEvent) {
	cc.state.Crop.PointerUp()
}

// MouseMoved advances the active gesture (desktop.Hoverable).
func (cc *CropCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if cc.state.Crop.Mode() == crop.ModeIdle {
		return
	}
	cc.state.Crop.PointerMove(eventPoint(ev))
	// Panning mutates only the camera; crop mutations already refresh
	// through the observer, but a second refresh of identical state is
	// harmless because rendering is idempotent.
	cc.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (cc *CropCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (cc *CropCanvas) MouseOut() {}

// Scrolled zooms at the pointer position (fyne.Scrollable).
func (cc *CropCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if !cc.state.HasImage() {
		return
	}
	sign := 1.0
	if ev.Scrolled.DY < 0 {
		sign = -1.0
	}
	pt := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	cc.state.Camera.ZoomAt(pt, sign)
	cc.state.Emit(app.EventCameraChanged, cc.state.Camera.Zoom)
}

// ZoomIn zooms one step anchored at the viewport center.
func (cc *CropCanvas) ZoomIn() { cc.zoomCentered(1) }

// ZoomOut zooms one step out anchored at the viewport center.
func (cc *CropCanvas) ZoomOut() { cc.zoomCentered(-1) }

func (cc *CropCanvas) zoomCentered(sign float64) {
	if !cc.state.HasImage() {
		return
	}
	size := cc.Size()
	center := geometry.NewPoint2D(float64(size.Width)/2, float64(size.Height)/2)
	cc.state.Camera.ZoomAt(center, sign)
	cc.state.Emit(app.EventCameraChanged, cc.state.Camera.Zoom)
}

// ResetView restores the default camera.
func (cc *CropCanvas) ResetView() {
	cc.state.Camera.Reset()
	cc.state.Emit(app.EventCameraChanged, cc.state.Camera.Zoom)
}

// Refresh redraws the raster.
func (cc *CropCanvas) Refresh() {
	cc.raster.Refresh()
	cc.BaseWidget.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (cc *CropCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cc.raster)
}

// MinSize keeps the canvas usable in small windows.
func (cc *CropCanvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func eventPoint(ev *desktop.MouseEvent) geometry.Point2D {
	return geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
}
