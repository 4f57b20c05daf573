// Package imgio provides image ingestion: decoding source files and
// keeping the original raw bytes next to the decoded raster. The core
// never decodes file formats anywhere else.
package imgio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Source is an immutable decoded raster together with the original file
// bytes. It is owned by the session for its lifetime and replaced
// wholesale when a new image is loaded.
type Source struct {
	Path   string
	Image  image.Image
	Raw    []byte
	Width  int
	Height int
}

// Load reads and decodes the image at path.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	b := img.Bounds()
	return &Source{
		Path:   path,
		Image:  img,
		Raw:    data,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Decode decodes an image from raw bytes. The registered decoders cover
// jpeg, png, tiff, and bmp; webp is tried explicitly as a fallback since
// its decoder lives outside the stdlib registry chain we rely on.
func Decode(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("unknown or unsupported image format")
}
