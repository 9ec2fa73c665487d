package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pairs/internal/game"
	"github.com/roach88/pairs/internal/store"
)

func runReplayCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	clearPairsEnv(t)
	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestReplayDeterministic(t *testing.T) {
	journal := recordJournal(t)

	out, err := runReplayCommand(t, "text", "--journal", journal, "--presets", writeTinyPresets(t))
	require.NoError(t, err, out)

	assert.Contains(t, out, "11 events, 11 replayed")
	assert.Contains(t, out, "1 run(s), all deterministic")
}

func TestReplayJSON(t *testing.T) {
	journal := recordJournal(t)

	out, err := runReplayCommand(t, "json", "--journal", journal, "--presets", writeTinyPresets(t))
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, 11, resp.Data.Runs[0].Events)
}

func TestReplayDetectsTampering(t *testing.T) {
	journal := recordJournal(t)

	st, err := store.Open(journal)
	require.NoError(t, err)
	ctx := context.Background()
	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	events, err := st.ReadEvents(ctx, runs[0].ID)
	require.NoError(t, err)

	// Copy the run without its mismatch; the replay will still produce one.
	forged := runs[0]
	forged.ID = "forged"
	require.NoError(t, st.WriteRun(ctx, forged))
	for _, ev := range events {
		if ev.Kind == game.EventMismatched {
			continue
		}
		require.NoError(t, st.WriteEvent(ctx, forged.ID, ev))
	}
	require.NoError(t, st.Close())

	out, err := runReplayCommand(t, "text", "--journal", journal, "--presets", writeTinyPresets(t), "--run", "forged")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ forged")
	assert.Contains(t, out, "NON-DETERMINISTIC")
}

func TestReplayWithoutPresetsFlag(t *testing.T) {
	journal := recordJournal(t)

	// The built-in catalog has no "tiny"; the journal carries its definition.
	out, err := runReplayCommand(t, "text", "--journal", journal)
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 run(s), all deterministic")
}
