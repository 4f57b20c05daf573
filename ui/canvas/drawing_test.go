package canvas

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"snapcrop/internal/viewport"
	"snapcrop/pkg/geometry"
)

func testCamera() *viewport.Camera {
	cam := viewport.NewCamera()
	cam.SetViewportSize(840, 840)
	cam.SetImageSize(800, 800)
	return cam
}

func testSource() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 800, 800))
	for y := 0; y < 800; y += 4 {
		for x := 0; x < 800; x += 4 {
			img.Set(x, y, color.RGBA{R: uint8(x / 4), G: uint8(y / 4), B: 90, A: 255})
		}
	}
	return img
}

func TestRenderIsIdempotent(t *testing.T) {
	cam := testCamera()
	src := testSource()
	crop := geometry.NewRect(80, 80, 640, 640)

	a := Render(840, 840, cam, src, crop, true)
	b := Render(840, 840, cam, src, crop, true)

	require.True(t, bytes.Equal(a.Pix, b.Pix), "identical inputs must produce pixel-identical output")
}

func TestRenderPlaceholderWithoutImage(t *testing.T) {
	out := Render(400, 300, testCamera(), nil, geometry.Rect{}, false)

	require.Equal(t, 400, out.Bounds().Dx())
	require.Equal(t, 300, out.Bounds().Dy())

	// The placeholder text leaves at least one non-background pixel.
	found := false
	for i := 0; i < len(out.Pix) && !found; i += 4 {
		if out.Pix[i] != backgroundColor.R || out.Pix[i+1] != backgroundColor.G || out.Pix[i+2] != backgroundColor.B {
			found = true
		}
	}
	require.True(t, found, "expected placeholder text pixels")
}

func TestRenderMasksOutsideCrop(t *testing.T) {
	cam := testCamera()
	src := testSource()
	crop := geometry.NewRect(80, 80, 640, 640)

	plain := Render(840, 840, cam, src, crop, false)
	overlaid := Render(840, 840, cam, src, crop, true)

	// At base scale 1 the crop occupies view (100,100)-(740,740). A point
	// well outside it is dimmed by the mask.
	require.NotEqual(t, plain.RGBAAt(50, 50), overlaid.RGBAAt(50, 50), "outside the crop must be masked")

	// A point deep inside the crop, away from guides and handles, is
	// untouched by the overlay.
	require.Equal(t, plain.RGBAAt(400, 400), overlaid.RGBAAt(400, 400), "inside the crop must be unmasked")
}

func TestRenderDrawsHandlesAndBorder(t *testing.T) {
	cam := testCamera()
	src := testSource()
	crop := geometry.NewRect(80, 80, 640, 640)

	out := Render(840, 840, cam, src, crop, true)

	// Corner handle square around view (100,100).
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(100, 100))
	// Border strip just left of the crop edge at mid-height.
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(99, 420))
}

func TestRenderHandlesDegenerateSurface(t *testing.T) {
	// A zero-area surface must not panic; the camera falls back to scale 1.
	cam := viewport.NewCamera()
	cam.SetImageSize(800, 800)
	cam.SetViewportSize(0, 0)

	out := Render(0, 0, cam, testSource(), geometry.NewRect(0, 0, 100, 100), true)
	require.NotNil(t, out)
}
