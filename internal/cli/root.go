package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pairs CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "pairs - a memory matching game",
		Long: `A memory matching game engine with a terminal front end.

Cards are dealt face-down in pairs; flip two per turn and find every pair.
Settings come from PAIRS_* environment variables, overridden by flags:

  PAIRS_SEED               deck shuffle seed (0 = random)
  PAIRS_RESOLUTION_DELAY   how long two open cards stay visible (default 800ms)
  PAIRS_TICK_INTERVAL      elapsed-time refresh interval (default 1s)
  PAIRS_JOURNAL            SQLite event journal (default :memory:)
  PAIRS_PRESETS            CUE file replacing the built-in presets`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewDealCommand(opts))
	cmd.AddCommand(NewPresetsCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger returns a text logger on w: debug level when verbose, warnings
// only otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ConfigFlags are the command-line overrides for config.Config.
type ConfigFlags struct {
	Seed    int64
	Journal string
	Presets string
}

func (f *ConfigFlags) bindSeed(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.Seed, "seed", 0, "deck shuffle seed (default $PAIRS_SEED, 0 = random)")
}

func (f *ConfigFlags) bindJournal(cmd *cobra.Command, usage string) {
	cmd.Flags().StringVar(&f.Journal, "journal", "", usage)
}

func (f *ConfigFlags) bindPresets(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Presets, "presets", "", "CUE preset file (default $PAIRS_PRESETS, built-ins when unset)")
}

// loadConfig reads the environment and applies any flag the user set.
func loadConfig(cmd *cobra.Command, f *ConfigFlags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = f.Seed
	}
	if flags.Changed("journal") {
		cfg.Journal = f.Journal
	}
	if flags.Changed("presets") {
		cfg.Presets = f.Presets
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}
