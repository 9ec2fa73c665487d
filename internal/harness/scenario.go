package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pairs/internal/preset"
)

// Scenario is a scripted game.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed drives the deck shuffle.
	Seed int64 `yaml:"seed"`

	// Presets adds presets on top of the built-in catalog.
	Presets []PresetSpec `yaml:"presets,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`
}

// PresetSpec declares an extra preset.
type PresetSpec struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label,omitempty"`
	PairCount   int      `yaml:"pair_count"`
	GridColumns int      `yaml:"grid_columns"`
	CardSize    int      `yaml:"card_size,omitempty"`
	Images      []string `yaml:"images"`
}

// Preset converts the declaration to a preset.Preset.
func (p PresetSpec) Preset() preset.Preset {
	images := make([]preset.ImageID, len(p.Images))
	for i, img := range p.Images {
		images[i] = preset.ImageID(img)
	}
	return preset.Preset{
		Name:        p.Name,
		Label:       p.Label,
		PairCount:   p.PairCount,
		Images:      images,
		GridColumns: p.GridColumns,
		CardSize:    p.CardSize,
	}
}

// Step is one action plus optional expectations.
type Step struct {
	Choose    string `yaml:"choose,omitempty"`
	Flip      *int   `yaml:"flip,omitempty"`
	FlipImage string `yaml:"flip_image,omitempty"`
	Advance   string `yaml:"advance,omitempty"`
	Tick      bool   `yaml:"tick,omitempty"`
	Restart   bool   `yaml:"restart,omitempty"`
	Clear     bool   `yaml:"clear,omitempty"`

	// Expect is checked against the snapshot after the step.
	Expect *Expect `yaml:"expect,omitempty"`

	// ExpectError is the error code the step must return.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Expect lists snapshot fields to check. Nil fields are not checked.
type Expect struct {
	Difficulty     *string `yaml:"difficulty,omitempty"`
	Cards          *int    `yaml:"cards,omitempty"`
	Attempts       *int    `yaml:"attempts,omitempty"`
	MatchedPairs   *int    `yaml:"matched_pairs,omitempty"`
	PairsRemaining *int    `yaml:"pairs_remaining,omitempty"`
	Open           *int    `yaml:"open,omitempty"`
	Checking       *bool   `yaml:"checking,omitempty"`
	GameOver       *bool   `yaml:"game_over,omitempty"`
	ElapsedSeconds *int    `yaml:"elapsed_seconds,omitempty"`
}

// Action names the step's single action.
func (s Step) Action() string {
	switch {
	case s.Choose != "":
		return "choose"
	case s.Flip != nil:
		return "flip"
	case s.FlipImage != "":
		return "flip_image"
	case s.Advance != "":
		return "advance"
	case s.Tick:
		return "tick"
	case s.Restart:
		return "restart"
	case s.Clear:
		return "clear"
	}
	return ""
}

func (s Step) actionCount() int {
	n := 0
	for _, set := range []bool{
		s.Choose != "",
		s.Flip != nil,
		s.FlipImage != "",
		s.Advance != "",
		s.Tick,
		s.Restart,
		s.Clear,
	} {
		if set {
			n++
		}
	}
	return n
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is invalid.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml and *.yml file in dir, sorted by name.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, p := range s.Presets {
		if p.Name == "" {
			return fmt.Errorf("presets[%d]: name is required", i)
		}
	}

	for i, step := range s.Steps {
		switch n := step.actionCount(); {
		case n == 0:
			return fmt.Errorf("steps[%d]: no action", i)
		case n > 1:
			return fmt.Errorf("steps[%d]: %d actions, want exactly one", i, n)
		}
		if step.Advance != "" {
			d, err := time.ParseDuration(step.Advance)
			if err != nil {
				return fmt.Errorf("steps[%d]: advance: %w", i, err)
			}
			if d < 0 {
				return fmt.Errorf("steps[%d]: advance must not be negative", i)
			}
		}
	}

	return nil
}
