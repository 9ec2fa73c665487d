package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pairs/internal/game"
	"github.com/roach88/pairs/internal/store"
)

func runTraceCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	clearPairsEnv(t)
	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTraceMissingJournal(t *testing.T) {
	_, err := runTraceCommand(t, "text")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "journal path is required")
}

func TestTraceNonExistentJournal(t *testing.T) {
	_, err := runTraceCommand(t, "text", "--journal", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal not found")
}

func TestTraceEmptyJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	st.Close()

	out, err := runTraceCommand(t, "text", "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found")
}

func TestTraceText(t *testing.T) {
	journal := recordJournal(t)

	out, err := runTraceCommand(t, "text", "--journal", journal)
	require.NoError(t, err)

	assert.Contains(t, out, "(seed 42, started 2026-01-01T12:00:00Z)")
	assert.Contains(t, out, "[1] +0ms dealt preset=tiny cards=4")
	assert.Contains(t, out, "mismatched images=moon,sun attempts=1")
	assert.Contains(t, out, "won attempts=3 elapsed=2s")
	assert.Equal(t, 11, strings.Count(out, "\n  ["), "dealt, 6 flips, mismatch, 2 matches, won")
}

func TestTraceJSONKindFilter(t *testing.T) {
	journal := recordJournal(t)

	out, err := runTraceCommand(t, "json", "--journal", journal, "--kind", "won")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   []RunTrace `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	require.Len(t, resp.Data[0].Events, 1)
	assert.Equal(t, game.EventWon, resp.Data[0].Events[0].Kind)
	assert.Equal(t, 3, resp.Data[0].Events[0].Attempts)
}

func TestTraceUnknownRun(t *testing.T) {
	journal := recordJournal(t)

	_, err := runTraceCommand(t, "text", "--journal", journal, "--run", "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}
