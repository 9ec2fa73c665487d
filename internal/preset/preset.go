// Package preset defines difficulty presets: how many pairs a game deals,
// which images it draws from, and how the grid is laid out.
//
// Presets are static configuration. The module ships three built-ins;
// an embedding application may supply its own catalog as a CUE file
// (see LoadFile).
package preset

import (
	"fmt"
)

// ImageID identifies a card face. The engine never interprets it.
type ImageID string

// Preset is an immutable difficulty configuration.
type Preset struct {
	Name        string    `json:"name"`
	Label       string    `json:"label,omitempty"`
	PairCount   int       `json:"pair_count"`
	Images      []ImageID `json:"images"`
	GridColumns int       `json:"grid_columns"`
	CardSize    int       `json:"card_size,omitempty"`
}

// Grid describes how the presentation layer lays out a deck.
type Grid struct {
	Columns  int `json:"columns"`
	CardSize int `json:"card_size"`
}

// Layout used when no difficulty has been chosen yet.
var fallbackGrid = Grid{Columns: 4, CardSize: 84}

// Validate checks the preset for configuration errors.
// A pool smaller than PairCount yields *InsufficientImagesError.
func (p Preset) Validate() error {
	if p.Name == "" {
		return &InvalidPresetError{Reason: "name is required"}
	}
	if p.PairCount <= 0 {
		return &InvalidPresetError{Name: p.Name, Reason: fmt.Sprintf("pair_count must be positive, got %d", p.PairCount)}
	}
	if p.GridColumns <= 0 {
		return &InvalidPresetError{Name: p.Name, Reason: fmt.Sprintf("grid_columns must be positive, got %d", p.GridColumns)}
	}
	seen := make(map[ImageID]bool, len(p.Images))
	for i, img := range p.Images {
		if img == "" {
			return &InvalidPresetError{Name: p.Name, Reason: fmt.Sprintf("images[%d] is empty", i)}
		}
		if seen[img] {
			return &InvalidPresetError{Name: p.Name, Reason: fmt.Sprintf("duplicate image %q", img)}
		}
		seen[img] = true
	}
	if len(p.Images) < p.PairCount {
		return &InsufficientImagesError{Preset: p.Name, PairCount: p.PairCount, Available: len(p.Images)}
	}
	return nil
}

// Grid returns the preset's layout.
func (p Preset) Grid() Grid {
	return Grid{Columns: p.GridColumns, CardSize: p.CardSize}
}

// Title returns the label if set, otherwise the name.
func (p Preset) Title() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// Clone returns a deep copy so callers cannot alias the image pool.
func (p Preset) Clone() Preset {
	c := p
	c.Images = append([]ImageID(nil), p.Images...)
	return c
}

// GridFor returns the layout for p, or the fallback layout when p is nil.
func GridFor(p *Preset) Grid {
	if p == nil {
		return fallbackGrid
	}
	return p.Grid()
}

func numbered(prefix string, n int) []ImageID {
	ids := make([]ImageID, n)
	for i := range ids {
		ids[i] = ImageID(fmt.Sprintf("%s-%d", prefix, i+1))
	}
	return ids
}

// Built-in presets.
var (
	Easy = Preset{
		Name:        "easy",
		Label:       "Leicht",
		PairCount:   6,
		Images:      numbered("coding", 9),
		GridColumns: 3,
		CardSize:    140,
	}
	Medium = Preset{
		Name:        "medium",
		Label:       "Mittel",
		PairCount:   10,
		Images:      numbered("fruit", 10),
		GridColumns: 4,
		CardSize:    95,
	}
	Hard = Preset{
		Name:        "hard",
		Label:       "Schwer",
		PairCount:   15,
		Images:      numbered("monster", 15),
		GridColumns: 5,
		CardSize:    80,
	}
)

// Builtin returns the shipped catalog: easy, medium, hard.
func Builtin() *Catalog {
	c, err := NewCatalog(Easy, Medium, Hard)
	if err != nil {
		panic(fmt.Sprintf("preset: invalid built-in catalog: %v", err))
	}
	return c
}
