package cli

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pairs/internal/preset"
)

func dealJSON(t *testing.T, args ...string) DealResult {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewDealCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string     `json:"status"`
		Data   DealResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestDealCommand_SameSeedSameLayout(t *testing.T) {
	clearPairsEnv(t)

	first := dealJSON(t, "--difficulty", "medium", "--seed", "42")
	second := dealJSON(t, "--difficulty", "Mittel", "--seed", "42")

	assert.Equal(t, "medium", first.Preset)
	assert.Equal(t, int64(42), first.Seed)
	assert.Equal(t, 4, first.Columns)
	assert.Len(t, first.Layout, 20)
	assert.Equal(t, first.Layout, second.Layout)
}

func TestDealCommand_EveryImageTwice(t *testing.T) {
	clearPairsEnv(t)

	result := dealJSON(t, "--difficulty", "easy", "--seed", "3")

	counts := make(map[preset.ImageID]int)
	for _, img := range result.Layout {
		counts[img]++
	}
	assert.Len(t, counts, 6)
	for img, n := range counts {
		assert.Equal(t, 2, n, "image %s", img)
	}
}

func TestDealCommand_SeedFromEnv(t *testing.T) {
	clearPairsEnv(t)
	t.Setenv("PAIRS_SEED", "42")

	fromEnv := dealJSON(t, "--difficulty", "hard")
	fromFlag := dealJSON(t, "--difficulty", "hard", "--seed", "42")

	assert.Equal(t, int64(42), fromEnv.Seed)
	assert.Equal(t, fromFlag.Layout, fromEnv.Layout)
}

func TestDealCommand_RandomSeedReported(t *testing.T) {
	clearPairsEnv(t)

	result := dealJSON(t, "--difficulty", "easy")

	assert.NotZero(t, result.Seed)
	replayed := dealJSON(t, "--difficulty", "easy", "--seed", strconv.FormatInt(result.Seed, 10))
	assert.Equal(t, result.Layout, replayed.Layout)
}

func TestDealCommand_Text(t *testing.T) {
	clearPairsEnv(t)
	buf := &bytes.Buffer{}
	cmd := NewDealCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--difficulty", "easy", "--seed", "1"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5, "header plus 12 cards in rows of 3")
	assert.Equal(t, "Leicht, seed 1, 12 cards", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0:coding-"))
}

func TestDealCommand_UnknownPreset(t *testing.T) {
	clearPairsEnv(t)
	cmd := NewDealCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--difficulty", "impossible"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "UNKNOWN_PRESET", ErrorCode(err))
}
