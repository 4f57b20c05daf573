package app

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"snapcrop/internal/export"
	"snapcrop/internal/imgio"
	"snapcrop/internal/presets"
)

func stateWithImage(t *testing.T, list []presets.Preset) *State {
	t.Helper()
	s := NewState(presets.NewInMemory(list))

	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	s.Source = &imgio.Source{Path: "mem.png", Image: img, Width: 400, Height: 200}
	s.Camera.SetImageSize(400, 200)
	s.Crop.ResetForImage(400, 200)
	return s
}

func TestNewStateForwardsCropMutations(t *testing.T) {
	s := NewState(presets.NewInMemory(nil))

	var events int
	s.On(EventCropChanged, func(interface{}) { events++ })

	s.Crop.ResetForImage(100, 100)
	require.Equal(t, 1, events)
}

func TestExportAllRequiresImageAndCrop(t *testing.T) {
	s := NewState(presets.NewInMemory(presets.Defaults()))

	_, err := s.ExportAll(export.Options{Format: export.FormatPNG})
	require.ErrorContains(t, err, "no image")
}

func TestExportArchiveContainsOnlySuccesses(t *testing.T) {
	s := stateWithImage(t, []presets.Preset{
		{ID: "good", Label: "Good", Width: 32, Height: 32},
		{ID: "bad", Label: "Bad", Width: 0, Height: 50},
	})

	var finished int
	s.On(EventExportFinished, func(interface{}) { finished++ })

	var buf bytes.Buffer
	res, err := s.ExportArchive(&buf, export.Options{Format: export.FormatPNG})
	require.NoError(t, err)
	require.Equal(t, 1, finished)
	require.Len(t, res.Successes, 1)
	require.Len(t, res.Failures, 1)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1, "failed presets are omitted from the archive")
	require.Equal(t, "good_32x32.png", zr.File[0].Name)
}

func TestEmitNotifiesAllListeners(t *testing.T) {
	s := NewState(presets.NewInMemory(nil))

	var a, b int
	s.On(EventCameraChanged, func(interface{}) { a++ })
	s.On(EventCameraChanged, func(interface{}) { b++ })
	s.On(EventImageLoaded, func(interface{}) { a += 100 })

	s.Emit(EventCameraChanged, nil)
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)
}
