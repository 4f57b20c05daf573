// Package archive packages exported renditions into a single downloadable
// file. The exporter has no opinion on the archive format; it only hands
// over (filename, bytes) pairs.
package archive

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// File is one named entry to package.
type File struct {
	Name string
	Data []byte
}

// Packager writes a set of files as one archive.
type Packager interface {
	Package(w io.Writer, files []File) error
}

// ZipPackager writes a zip archive using klauspost's deflate.
type ZipPackager struct {
	// Level is the flate compression level; 0 means flate.DefaultCompression.
	Level int
}

// NewZipPackager creates a packager with the default compression level.
func NewZipPackager() *ZipPackager {
	return &ZipPackager{}
}

// Package writes all files into a single zip stream.
func (z *ZipPackager) Package(w io.Writer, files []File) error {
	level := z.Level
	if level == 0 {
		level = flate.DefaultCompression
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	for _, f := range files {
		entry, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("create archive entry %s: %w", f.Name, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return fmt.Errorf("write archive entry %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}
