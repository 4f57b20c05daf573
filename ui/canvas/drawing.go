// Package canvas provides the interactive crop canvas widget and its
// overlay renderer.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	xdraw "golang.org/x/image/draw"

	"snapcrop/internal/viewport"
	"snapcrop/pkg/geometry"
)

const (
	// handleSize is the drawn half-width of a corner handle square in
	// view pixels. The hit zone in the crop machine is larger.
	handleSize = 6

	borderThickness = 2
)

var (
	backgroundColor = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	maskColor       = color.NRGBA{A: 140}
	borderColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	handleColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	guideColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 90}
	placeholderText = color.RGBA{R: 140, G: 140, B: 150, A: 255}
)

// Render redraws the full canvas surface for the given state. It is a
// pure function: identical inputs produce pixel-identical output, so the
// caller may invoke it on every refresh tick without bookkeeping.
//
// cropRect is in image space; pass hasCrop=false to suppress the overlay
// (no image loaded yet).
func Render(w, h int, cam *viewport.Camera, src image.Image, cropRect geometry.Rect, hasCrop bool) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	if src == nil {
		drawCenteredLabel(out, "No image loaded")
		return out
	}

	drawSource(out, cam, src)

	if !hasCrop {
		return out
	}

	view := cam.ViewRect(cropRect)
	cx0 := int(math.Round(view.X))
	cy0 := int(math.Round(view.Y))
	cx1 := int(math.Round(view.X + view.Width))
	cy1 := int(math.Round(view.Y + view.Height))

	// Dim everything outside the crop with four rectangular bands
	// (top, bottom, left, right) rather than a clip path.
	mask := image.NewUniform(maskColor)
	fillOver(out, image.Rect(0, 0, w, cy0), mask)
	fillOver(out, image.Rect(0, cy1, w, h), mask)
	fillOver(out, image.Rect(0, cy0, cx0, cy1), mask)
	fillOver(out, image.Rect(cx1, cy0, w, cy1), mask)

	drawBorder(out, cx0, cy0, cx1, cy1)
	drawGuides(out, cx0, cy0, cx1, cy1)
	drawHandles(out, cx0, cy0, cx1, cy1)

	return out
}

// drawSource scales the source image into its view-space rectangle.
func drawSource(out *image.RGBA, cam *viewport.Camera, src image.Image) {
	b := src.Bounds()
	view := cam.ViewRect(geometry.NewRect(0, 0, float64(b.Dx()), float64(b.Dy())))
	dst := image.Rect(
		int(math.Round(view.X)),
		int(math.Round(view.Y)),
		int(math.Round(view.X+view.Width)),
		int(math.Round(view.Y+view.Height)),
	)
	if dst.Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(out, dst, src, b, xdraw.Src, nil)
}

// fillOver alpha-blends a uniform color over the given region.
func fillOver(out *image.RGBA, r image.Rectangle, src image.Image) {
	r = r.Intersect(out.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(out, r, src, image.Point{}, draw.Over)
}

// drawBorder draws the 2px crop outline.
func drawBorder(out *image.RGBA, x0, y0, x1, y1 int) {
	border := image.NewUniform(borderColor)
	fillOver(out, image.Rect(x0-borderThickness, y0-borderThickness, x1+borderThickness, y0), border)
	fillOver(out, image.Rect(x0-borderThickness, y1, x1+borderThickness, y1+borderThickness), border)
	fillOver(out, image.Rect(x0-borderThickness, y0, x0, y1), border)
	fillOver(out, image.Rect(x1, y0, x1+borderThickness, y1), border)
}

// drawGuides draws the rule-of-thirds lines inside the crop.
func drawGuides(out *image.RGBA, x0, y0, x1, y1 int) {
	guide := image.NewUniform(guideColor)
	w := x1 - x0
	h := y1 - y0
	for i := 1; i <= 2; i++ {
		gx := x0 + w*i/3
		fillOver(out, image.Rect(gx, y0, gx+1, y1), guide)
		gy := y0 + h*i/3
		fillOver(out, image.Rect(x0, gy, x1, gy+1), guide)
	}
}

// drawHandles draws the four fixed-size corner handle squares.
func drawHandles(out *image.RGBA, x0, y0, x1, y1 int) {
	handle := image.NewUniform(handleColor)
	for _, c := range [4]image.Point{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		fillOver(out, image.Rect(c.X-handleSize, c.Y-handleSize, c.X+handleSize, c.Y+handleSize), handle)
	}
}

// drawCenteredLabel renders the no-image placeholder text.
func drawCenteredLabel(out *image.RGBA, text string) {
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(placeholderText),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(text).Ceil()
	b := out.Bounds()
	d.Dot = fixed.P(b.Min.X+(b.Dx()-width)/2, b.Min.Y+b.Dy()/2)
	d.DrawString(text)
}
