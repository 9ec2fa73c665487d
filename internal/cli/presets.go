package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/preset"
)

// PresetsOptions holds flags for the presets command.
type PresetsOptions struct {
	*RootOptions
	ConfigFlags
}

// PresetInfo describes one catalog entry.
type PresetInfo struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	PairCount   int    `json:"pair_count"`
	Pool        int    `json:"pool"`
	GridColumns int    `json:"grid_columns"`
	CardSize    int    `json:"card_size"`
}

// NewPresetsCommand creates the presets command.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PresetsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List difficulty presets",
		Long: `List the difficulty presets available to play, deal and replay.

Examples:
  pairs presets
  pairs presets --presets ./presets.cue
  pairs presets --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresets(opts, cmd)
		},
	}

	opts.bindPresets(cmd)

	return cmd
}

func runPresets(opts *PresetsOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, &opts.ConfigFlags)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load presets", err)
	}

	infos := presetInfos(catalog)
	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.Success(infos)
	}
	return writePresetTable(cmd.OutOrStdout(), infos)
}

func presetInfos(catalog *preset.Catalog) []PresetInfo {
	all := catalog.All()
	infos := make([]PresetInfo, len(all))
	for i, p := range all {
		infos[i] = PresetInfo{
			Name:        p.Name,
			Label:       p.Label,
			PairCount:   p.PairCount,
			Pool:        len(p.Images),
			GridColumns: p.GridColumns,
			CardSize:    p.CardSize,
		}
	}
	return infos
}

func writePresetTable(w io.Writer, infos []PresetInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tPAIRS\tPOOL\tCOLUMNS\tCARD SIZE")
	for _, p := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n", p.Name, p.Label, p.PairCount, p.Pool, p.GridColumns, p.CardSize)
	}
	return tw.Flush()
}
