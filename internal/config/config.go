// Package config holds runtime settings shared by the pairs commands.
//
// Values come from PAIRS_* environment variables; command-line flags
// override them.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/roach88/pairs/internal/preset"
)

// Config holds engine and journal settings.
type Config struct {
	// Seed for the deck shuffle. Zero means pick one at random.
	Seed int64 `env:"PAIRS_SEED"`

	ResolutionDelay time.Duration `env:"PAIRS_RESOLUTION_DELAY" envDefault:"800ms" validate:"gte=0"`
	TickInterval    time.Duration `env:"PAIRS_TICK_INTERVAL"    envDefault:"1s"    validate:"gt=0"`

	// Journal is the SQLite path events are recorded to.
	Journal string `env:"PAIRS_JOURNAL" envDefault:":memory:" validate:"required"`

	// Presets is an optional CUE file replacing the built-in catalog.
	Presets string `env:"PAIRS_PRESETS"`
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

var fieldMessages = map[string]string{
	"ResolutionDelay": "resolution delay must not be negative",
	"TickInterval":    "tick interval must be positive",
	"Journal":         "journal path is required",
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := verrs[0]
	msg, ok := fieldMessages[fe.Field()]
	if !ok {
		return fmt.Errorf("invalid %s: %w", fe.Field(), err)
	}
	if fe.Tag() == "required" {
		return errors.New(msg)
	}
	return fmt.Errorf("%s, got %v", msg, fe.Value())
}

// Catalog returns the preset catalog: the CUE file named by Presets, or the
// built-ins when it is empty.
func (c Config) Catalog() (*preset.Catalog, error) {
	if c.Presets == "" {
		return preset.Builtin(), nil
	}
	catalog, err := preset.LoadFile(c.Presets)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	return catalog, nil
}
