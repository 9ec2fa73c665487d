package preset

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Catalog is an ordered, validated set of presets.
type Catalog struct {
	presets []Preset
	byKey   map[string]int
}

// NewCatalog validates each preset and indexes it by name and label.
// Keys are compared after NFC normalization and Unicode case folding, so
// "LEICHT" and "leicht" find the same preset.
func NewCatalog(presets ...Preset) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]int)}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		nameKey := foldKey(p.Name)
		if _, dup := c.byKey[nameKey]; dup {
			return nil, &InvalidPresetError{Name: p.Name, Reason: "duplicate preset name"}
		}
		idx := len(c.presets)
		c.presets = append(c.presets, p.Clone())
		c.byKey[nameKey] = idx
		if p.Label != "" {
			if _, taken := c.byKey[foldKey(p.Label)]; !taken {
				c.byKey[foldKey(p.Label)] = idx
			}
		}
	}
	return c, nil
}

// Lookup finds a preset by name or label.
func (c *Catalog) Lookup(name string) (Preset, error) {
	idx, ok := c.byKey[foldKey(name)]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return c.presets[idx].Clone(), nil
}

// All returns the presets in declaration order.
func (c *Catalog) All() []Preset {
	out := make([]Preset, len(c.presets))
	for i, p := range c.presets {
		out[i] = p.Clone()
	}
	return out
}

// Names returns preset names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.presets))
	for i, p := range c.presets {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}

func foldKey(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
