package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/game"
	"github.com/roach88/pairs/internal/harness"
	"github.com/roach88/pairs/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	ConfigFlags
	RunID string
	Kind  string // optional - filter to one event kind
}

// RunTrace is one run and its events.
type RunTrace struct {
	Run    store.Run    `json:"run"`
	Events []game.Event `json:"events"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print journaled game events",
		Long: `Print the events recorded in a journal, run by run, in sequence order.

Examples:
  pairs trace --journal ./pairs.db
  pairs trace --journal ./pairs.db --run 0190f0c2-...
  pairs trace --journal ./pairs.db --kind won --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	opts.bindJournal(cmd, "SQLite journal path (default $PAIRS_JOURNAL)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "trace a single run")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show events of this kind")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd, &opts.ConfigFlags)
	if err != nil {
		return err
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

	traces := make([]RunTrace, 0, len(runs))
	for _, run := range runs {
		events, err := st.ReadEvents(ctx, run.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read events for run %s", run.ID), err)
		}
		traces = append(traces, RunTrace{Run: run, Events: filterKind(events, opts.Kind)})
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.Success(traces)
	}

	w := cmd.OutOrStdout()
	if len(traces) == 0 {
		fmt.Fprintln(w, "No runs found in journal.")
		return nil
	}
	for i, t := range traces {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeRunTrace(w, t, opts.Verbose)
	}
	return nil
}

func filterKind(events []game.Event, kind string) []game.Event {
	if kind == "" {
		return events
	}
	out := make([]game.Event, 0, len(events))
	for _, ev := range events {
		if string(ev.Kind) == kind {
			out = append(out, ev)
		}
	}
	return out
}

func writeRunTrace(w io.Writer, t RunTrace, verbose bool) {
	fmt.Fprintf(w, "Run %s (seed %d, started %s)\n", t.Run.ID, t.Run.Seed, t.Run.StartedAt.Format(time.RFC3339))
	if len(t.Events) == 0 {
		fmt.Fprintln(w, "  (no events)")
		return
	}
	for _, ev := range t.Events {
		fmt.Fprintf(w, "  [%d] %s\n", ev.Seq, harness.FormatEvent(ev))
		if verbose && len(ev.Cards) > 0 {
			fmt.Fprintf(w, "       cards %v\n", ev.Cards)
		}
	}
}
