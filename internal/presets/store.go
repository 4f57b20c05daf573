// Package presets manages named target output sizes and their JSON
// persistence. Order is meaningful for the UI; the exporter only reads
// the list.
package presets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const presetsFile = "presets.json"

// Preset is a named target output size.
type Preset struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	LockAspectRatio bool   `json:"lock_aspect_ratio"`
}

// Valid reports whether the preset has positive dimensions.
func (p Preset) Valid() bool {
	return p.Width > 0 && p.Height > 0
}

// Defaults returns the preset list shipped when no store file exists.
func Defaults() []Preset {
	return []Preset{
		{ID: "og-card", Label: "OG Card", Width: 1200, Height: 630},
		{ID: "square", Label: "Square", Width: 1080, Height: 1080},
		{ID: "story", Label: "Story", Width: 1080, Height: 1920},
		{ID: "banner", Label: "Banner", Width: 1500, Height: 500},
		{ID: "thumbnail", Label: "Thumbnail", Width: 320, Height: 180},
	}
}

// Store holds an ordered preset list persisted as JSON under the user
// config directory.
type Store struct {
	mu    sync.RWMutex
	items []Preset
	path  string
}

// Load reads presets from ~/.config/snapcrop/presets.json, falling back
// to the default set if the file doesn't exist or can't be parsed.
func Load() *Store {
	s := &Store{}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	s.path = filepath.Join(configDir, "snapcrop", presetsFile)

	data, err := os.ReadFile(s.path)
	if err != nil || json.Unmarshal(data, &s.items) != nil || len(s.items) == 0 {
		s.items = Defaults()
	}
	return s
}

// NewInMemory creates a store that is never persisted; used by tests and
// headless callers.
func NewInMemory(items []Preset) *Store {
	return &Store{items: append([]Preset(nil), items...)}
}

// Save writes the preset list to disk.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	data, err := json.MarshalIndent(s.items, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// List returns a snapshot of the presets in order.
func (s *Store) List() []Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Preset(nil), s.items...)
}

// Add appends a preset to the end of the list.
func (s *Store) Add(p Preset) error {
	if !p.Valid() {
		return fmt.Errorf("preset %q has invalid size %dx%d", p.Label, p.Width, p.Height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == p.ID {
			return fmt.Errorf("preset %q already exists", p.ID)
		}
	}
	s.items = append(s.items, p)
	return nil
}

// Update replaces the preset with the same ID, keeping its position.
func (s *Store) Update(p Preset) error {
	if !p.Valid() {
		return fmt.Errorf("preset %q has invalid size %dx%d", p.Label, p.Width, p.Height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.items {
		if existing.ID == p.ID {
			s.items[i] = p
			return nil
		}
	}
	return fmt.Errorf("preset %q not found", p.ID)
}

// Remove deletes the preset with the given ID.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.items {
		if existing.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("preset %q not found", id)
}
