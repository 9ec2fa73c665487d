package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/config"
	"github.com/roach88/pairs/internal/store"
)

// openJournal opens an existing journal for reading.
func openJournal(cfg config.Config) (*store.Store, error) {
	if cfg.Journal == ":memory:" {
		return nil, NewExitError(ExitCommandError, "journal path is required (--journal or $PAIRS_JOURNAL)")
	}
	if _, err := os.Stat(cfg.Journal); err != nil {
		return nil, WrapExitError(ExitCommandError, "journal not found", err)
	}
	st, err := store.Open(cfg.Journal)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return st, nil
}

// selectRuns returns the run with id, or every run when id is empty.
func selectRuns(ctx context.Context, st *store.Store, id string) ([]store.Run, error) {
	if id == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return runs, nil
	}
	run, err := st.ReadRun(ctx, id)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read run %s", id), err)
	}
	return []store.Run{run}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
