package preset

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset is returned by Catalog.Lookup when no preset matches.
var ErrUnknownPreset = errors.New("unknown preset")

// InsufficientImagesError reports a preset whose image pool cannot supply
// the requested number of pairs.
type InsufficientImagesError struct {
	Preset    string
	PairCount int
	Available int
}

func (e *InsufficientImagesError) Error() string {
	return fmt.Sprintf("preset %q needs %d distinct images, pool has %d", e.Preset, e.PairCount, e.Available)
}

// InvalidPresetError reports any other malformed preset.
type InvalidPresetError struct {
	Name   string
	Reason string
}

func (e *InvalidPresetError) Error() string {
	if e.Name == "" {
		return "invalid preset: " + e.Reason
	}
	return fmt.Sprintf("invalid preset %q: %s", e.Name, e.Reason)
}

// IsInsufficientImages reports whether err is, or wraps, an InsufficientImagesError.
func IsInsufficientImages(err error) bool {
	var ie *InsufficientImagesError
	return errors.As(err, &ie)
}
