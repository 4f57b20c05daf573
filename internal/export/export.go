// Package export rasterizes the user's crop into every requested target
// size. Each preset is re-framed via smart auto-fit, resampled with a
// Lanczos filter to the exact target dimensions, and encoded. Preset
// failures are isolated: one bad preset never aborts the batch.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"runtime"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"snapcrop/internal/presets"
	"snapcrop/internal/reframe"
	"snapcrop/pkg/geometry"
)

// Format selects the output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// Options configures one export batch.
type Options struct {
	Format Format
	// Quality in [0,1]; ignored for png.
	Quality float64
	// Parallelism bounds concurrent preset workers; 0 means NumCPU.
	Parallelism int
}

// Rendition is one successfully produced output raster.
type Rendition struct {
	Preset   presets.Preset
	Filename string
	Data     []byte
}

// Failure records one preset that could not be produced.
type Failure struct {
	Preset presets.Preset
	Err    error
}

// Result is the all-or-best-effort-complete outcome of a batch.
type Result struct {
	Successes []Rendition
	Failures  []Failure
}

// All exports every preset from the given source image and crop
// snapshot. Both are read-only for the duration; the caller must not
// mutate them until All returns. The only fatal condition is an
// undefined crop; everything else degrades to per-preset failures.
func All(ctx context.Context, src image.Image, userCrop geometry.Rect, list []presets.Preset, opts Options) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("export: no source image")
	}
	if userCrop.Empty() {
		return nil, fmt.Errorf("export: no crop defined")
	}
	if opts.Format != FormatJPEG && opts.Format != FormatPNG {
		return nil, fmt.Errorf("export: unsupported format %q", opts.Format)
	}

	workers := opts.Parallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	bounds := src.Bounds()
	imgW := float64(bounds.Dx())
	imgH := float64(bounds.Dy())

	renditions := make([]*Rendition, len(list))
	failures := make([]*Failure, len(list))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range list {
		g.Go(func() error {
			data, err := renderPreset(src, userCrop, p, imgW, imgH, opts)
			if err != nil {
				failures[i] = &Failure{Preset: p, Err: err}
				return nil // sibling presets keep going
			}
			renditions[i] = &Rendition{
				Preset:   p,
				Filename: Filename(p, opts.Format),
				Data:     data,
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{}
	for i := range list {
		if renditions[i] != nil {
			res.Successes = append(res.Successes, *renditions[i])
		}
		if failures[i] != nil {
			res.Failures = append(res.Failures, *failures[i])
		}
	}
	return res, nil
}

// renderPreset produces the encoded bytes for a single preset.
func renderPreset(src image.Image, userCrop geometry.Rect, p presets.Preset, imgW, imgH float64, opts Options) ([]byte, error) {
	srcRect, err := reframe.FitToTarget(userCrop, p.Width, p.Height, imgW, imgH)
	if err != nil {
		return nil, err
	}

	cropped := imaging.Crop(src, pixelRect(srcRect, src.Bounds()))
	if cropped.Bounds().Empty() {
		return nil, fmt.Errorf("source region %v is empty", srcRect)
	}
	out := imaging.Resize(cropped, p.Width, p.Height, imaging.Lanczos)

	var buf bytes.Buffer
	switch opts.Format {
	case FormatPNG:
		err = imaging.Encode(&buf, out, imaging.PNG)
	default:
		err = imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(jpegQuality(opts.Quality)))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", opts.Format, err)
	}
	return buf.Bytes(), nil
}

// pixelRect converts a float image-space rectangle to integer pixel
// coordinates inside bounds, keeping at least one pixel in each
// dimension.
func pixelRect(r geometry.Rect, bounds image.Rectangle) image.Rectangle {
	x0 := bounds.Min.X + int(math.Round(r.X))
	y0 := bounds.Min.Y + int(math.Round(r.Y))
	x1 := bounds.Min.X + int(math.Round(r.X+r.Width))
	y1 := bounds.Min.Y + int(math.Round(r.Y+r.Height))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}

// jpegQuality maps a [0,1] quality to the encoder's 1..100 scale.
func jpegQuality(q float64) int {
	n := int(math.Round(geometry.Clamp(q, 0, 1) * 100))
	if n < 1 {
		n = 1
	}
	return n
}

// Filename derives the deterministic output name for a preset:
// lowercased label with separators collapsed, plus dimensions.
func Filename(p presets.Preset, format Format) string {
	label := slug(p.Label)
	if label == "" {
		label = slug(p.ID)
	}
	if label == "" {
		label = "preset"
	}
	ext := "jpg"
	if format == FormatPNG {
		ext = "png"
	}
	return fmt.Sprintf("%s_%dx%d.%s", label, p.Width, p.Height, ext)
}

func slug(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
