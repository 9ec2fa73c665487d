package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/harness"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	ConfigFlags
	RunID string
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string   `json:"run_id"`
	Events        int      `json:"events"`
	Replayed      int      `json:"replayed"`
	Deterministic bool     `json:"deterministic"`
	Diffs         []string `json:"diffs,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled runs and verify determinism",
		Long: `Re-run every journaled run on a fake clock with its recorded seed and
timings, re-applying each recorded deal, flip and clear at its recorded
offset, and verify the engine produces the same events. Deals are replayed
from the preset definition journaled with them; --presets is only needed for
journals whose deals carry no definition.

Exit codes:
  0 - All runs are deterministic
  1 - Replay differs from the journal
  2 - Command error (journal not found, unknown preset, etc.)

Examples:
  pairs replay --journal ./pairs.db
  pairs replay --journal ./pairs.db --run 0190f0c2-...
  pairs replay --journal ./pairs.db --presets ./presets.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	opts.bindJournal(cmd, "SQLite journal path (default $PAIRS_JOURNAL)")
	opts.bindPresets(cmd)
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay a single run")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd, &opts.ConfigFlags)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load presets", err)
	}
	st, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := selectRuns(ctx, st, opts.RunID)
	if err != nil {
		return err
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}
	for _, run := range runs {
		events, err := st.ReadEvents(ctx, run.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read events for run %s", run.ID), err)
		}
		report, err := harness.Replay(run, events, catalog)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		result.Runs = append(result.Runs, ReplayRunResult{
			RunID:         report.RunID,
			Events:        report.Recorded,
			Replayed:      report.Replayed,
			Deterministic: report.Deterministic,
			Diffs:         report.Diffs,
		})
		if !report.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		if result.AllDeterministic {
			err = f.Success(result)
		} else {
			err = f.Failure(result)
		}
		if err != nil {
			return err
		}
	} else {
		writeReplayText(cmd.OutOrStdout(), result, opts.Verbose)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay differs from journal")
	}
	return nil
}

func writeReplayText(w io.Writer, result ReplayResult, verbose bool) {
	if result.TotalRuns == 0 {
		fmt.Fprintln(w, "No runs found in journal.")
		return
	}
	for _, r := range result.Runs {
		mark := "✓"
		if !r.Deterministic {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s: %d events, %d replayed\n", mark, r.RunID, r.Events, r.Replayed)
		if !r.Deterministic || verbose {
			for _, d := range r.Diffs {
				fmt.Fprintf(w, "  %s\n", d)
			}
		}
	}
	status := "all deterministic"
	if !result.AllDeterministic {
		status = "NON-DETERMINISTIC"
	}
	fmt.Fprintf(w, "\n%d run(s), %s\n", result.TotalRuns, status)
}
