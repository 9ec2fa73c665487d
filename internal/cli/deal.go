package cli

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/deck"
	"github.com/roach88/pairs/internal/preset"
)

// DealOptions holds flags for the deal command.
type DealOptions struct {
	*RootOptions
	ConfigFlags
	Difficulty string
}

// DealResult is one dealt deck.
type DealResult struct {
	Preset  string           `json:"preset"`
	Seed    int64            `json:"seed"`
	Columns int              `json:"columns"`
	Layout  []preset.ImageID `json:"layout"`
}

// NewDealCommand creates the deal command.
func NewDealCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DealOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Print a shuffled deck layout",
		Long: `Deal a deck for a difficulty and print the image at every position.

The same seed always deals the same layout.

Examples:
  pairs deal --difficulty easy --seed 42
  pairs deal --difficulty Schwer --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeal(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", "easy", "preset name or label")
	opts.bindSeed(cmd)
	opts.bindPresets(cmd)

	return cmd
}

func runDeal(opts *DealOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, &opts.ConfigFlags)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load presets", err)
	}
	p, err := catalog.Lookup(opts.Difficulty)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to deal", err)
	}

	seed := resolveSeed(cfg.Seed)
	cards, err := deck.Build(p, deck.NewRand(seed))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to deal", err)
	}

	result := DealResult{
		Preset:  p.Name,
		Seed:    seed,
		Columns: p.GridColumns,
		Layout:  deck.Layout(cards),
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s, seed %d, %d cards\n", p.Title(), seed, len(cards))
	labels := make([]string, len(cards))
	width := 0
	for i, c := range cards {
		labels[i] = fmt.Sprintf("%d:%s", c.ID, c.Image)
		width = max(width, len(labels[i]))
	}
	writeGrid(w, labels, p.GridColumns, width)
	return nil
}

// resolveSeed returns seed, or a random non-zero seed when it is zero.
func resolveSeed(seed int64) int64 {
	for seed == 0 {
		seed = rand.Int64()
	}
	return seed
}
