// Package app provides the session state: the loaded source image, the
// viewport camera, the crop machine, and the event bus tying them to the
// UI.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"snapcrop/internal/archive"
	"snapcrop/internal/crop"
	"snapcrop/internal/export"
	"snapcrop/internal/imgio"
	"snapcrop/internal/presets"
	"snapcrop/internal/viewport"
	"snapcrop/pkg/geometry"
)

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventCropChanged
	EventCameraChanged
	EventExportFinished
	EventPresetsChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the session state. Interaction runs on a single logical
// thread; the mutex only guards the listener registry, matching how the
// UI registers callbacks during setup.
type State struct {
	mu sync.RWMutex

	Source  *imgio.Source
	Camera  *viewport.Camera
	Crop    *crop.Machine
	Presets *presets.Store

	packager archive.Packager

	listeners map[EventType][]EventListener
}

// NewState creates a new session with no image loaded.
func NewState(store *presets.Store) *State {
	cam := viewport.NewCamera()
	s := &State{
		Camera:    cam,
		Crop:      crop.NewMachine(cam),
		Presets:   store,
		packager:  archive.NewZipPackager(),
		listeners: make(map[EventType][]EventListener),
	}
	s.Crop.SetObserver(func(r geometry.Rect) {
		s.Emit(EventCropChanged, r)
	})
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage replaces the session image wholesale: the camera resets and
// the crop rectangle re-initializes to the default centered square.
func (s *State) LoadImage(path string) error {
	src, err := imgio.Load(path)
	if err != nil {
		return err
	}

	s.Source = src
	s.Camera.SetImageSize(float64(src.Width), float64(src.Height))
	s.Camera.Reset()
	s.Crop.ResetForImage(float64(src.Width), float64(src.Height))

	s.Emit(EventImageLoaded, src)
	return nil
}

// HasImage reports whether a source image is loaded.
func (s *State) HasImage() bool {
	return s.Source != nil
}

// ExportAll rasterizes the current crop at every stored preset size.
// The source image and the crop snapshot are frozen for the duration.
func (s *State) ExportAll(opts export.Options) (*export.Result, error) {
	if s.Source == nil {
		return nil, fmt.Errorf("no image loaded")
	}
	if !s.Crop.HasCrop() {
		return nil, fmt.Errorf("no crop defined")
	}

	// No cancellation path for an in-flight export yet; the context is
	// plumbed for when the UI grows one.
	res, err := export.All(context.Background(), s.Source.Image, s.Crop.Rect(), s.Presets.List(), opts)
	if err != nil {
		return nil, err
	}
	s.Emit(EventExportFinished, res)
	return res, nil
}

// ExportArchive runs ExportAll and packages the successful renditions
// into a single archive written to w. Failed presets are omitted from
// the archive and reported in the result.
func (s *State) ExportArchive(w io.Writer, opts export.Options) (*export.Result, error) {
	res, err := s.ExportAll(opts)
	if err != nil {
		return nil, err
	}

	files := make([]archive.File, 0, len(res.Successes))
	for _, r := range res.Successes {
		files = append(files, archive.File{Name: r.Filename, Data: r.Data})
	}
	if err := s.packager.Package(w, files); err != nil {
		return res, fmt.Errorf("packaging failed: %w", err)
	}
	return res, nil
}
