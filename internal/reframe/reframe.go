// Package reframe implements smart auto-fit: expanding a user crop to a
// target aspect ratio around a fixed center, clamped to image bounds.
package reframe

import (
	"fmt"

	"snapcrop/pkg/geometry"
)

// FitToTarget derives the source sub-rectangle to sample so that scaling
// it to targetW x targetH introduces no distortion while preserving the
// user crop's center. The crop is always expanded (never shrunk) toward
// the target ratio, then shrunk only as far as the image bounds force,
// and finally translated back inside the image.
//
// The two bound-shrink checks run sequentially, width first; under
// extreme ratio/size combinations the result can drift slightly from the
// exact target ratio, which is accepted.
func FitToTarget(userCrop geometry.Rect, targetW, targetH int, imgW, imgH float64) (geometry.Rect, error) {
	if targetW <= 0 || targetH <= 0 {
		return geometry.Rect{}, fmt.Errorf("reframe: invalid target size %dx%d", targetW, targetH)
	}
	if userCrop.Empty() {
		return geometry.Rect{}, fmt.Errorf("reframe: empty user crop")
	}

	center := userCrop.Center()
	targetRatio := float64(targetW) / float64(targetH)
	userRatio := userCrop.Ratio()

	var srcW, srcH float64
	if targetRatio > userRatio {
		// Target is relatively wider: hold height, expand width.
		srcH = userCrop.Height
		srcW = srcH * targetRatio
	} else {
		// Target is relatively taller (or equal): hold width, expand height.
		srcW = userCrop.Width
		srcH = srcW / targetRatio
	}

	if srcW > imgW {
		srcW = imgW
		srcH = srcW / targetRatio
	}
	if srcH > imgH {
		srcH = imgH
		srcW = srcH * targetRatio
	}

	// Center on the user crop's center, then translate into bounds.
	x := geometry.Clamp(center.X-srcW/2, 0, imgW-srcW)
	y := geometry.Clamp(center.Y-srcH/2, 0, imgH-srcH)

	return geometry.Rect{X: x, Y: y, Width: srcW, Height: srcH}, nil
}
