package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pairs/internal/config"
	"github.com/roach88/pairs/internal/preset"
	"github.com/roach88/pairs/internal/store"
	"github.com/roach88/pairs/internal/testutil"
)

const tinyPresetsCUE = `preset: tiny: {
	label:        "Winzig"
	pair_count:   2
	grid_columns: 2
	card_size:    60
	images: ["sun", "moon"]
}
`

// clearPairsEnv keeps the developer's PAIRS_* settings out of the tests.
func clearPairsEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PAIRS_SEED", "PAIRS_RESOLUTION_DELAY", "PAIRS_TICK_INTERVAL", "PAIRS_JOURNAL", "PAIRS_PRESETS"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeTinyPresets(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.cue")
	require.NoError(t, os.WriteFile(path, []byte(tinyPresetsCUE), 0644))
	return path
}

func tinyCatalog(t *testing.T) *preset.Catalog {
	t.Helper()
	c, err := preset.Parse([]byte(tinyPresetsCUE), "tiny.cue")
	require.NoError(t, err)
	return c
}

// testSession is a play session on a fake clock writing to a buffer.
type testSession struct {
	*playSession
	clock *testutil.FakeClock
	out   *bytes.Buffer
}

func newTestSession(t *testing.T, st *store.Store, seed int64) *testSession {
	t.Helper()
	return newTestSessionContext(t, context.Background(), st, seed)
}

func newTestSessionContext(t *testing.T, ctx context.Context, st *store.Store, seed int64) *testSession {
	t.Helper()
	clk := testutil.NewFakeClock(testutil.Epoch)
	out := &bytes.Buffer{}
	s, err := newPlaySession(ctx, playDeps{
		cfg: config.Config{
			Seed:            seed,
			ResolutionDelay: 800 * time.Millisecond,
			TickInterval:    time.Second,
			Journal:         ":memory:",
		},
		catalog: tinyCatalog(t),
		store:   st,
		clock:   clk,
		out:     &syncWriter{w: out},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(s.close)
	return &testSession{playSession: s, clock: clk, out: out}
}

// cardWith returns the lowest face-down card showing img.
func (s *testSession) cardWith(t *testing.T, img preset.ImageID) int {
	t.Helper()
	for _, c := range s.engine.Snapshot().Cards {
		if c.Image == img && !c.FaceUp && !c.Matched {
			return c.ID
		}
	}
	t.Fatalf("no face-down card with image %q", img)
	return -1
}

// recordJournal plays one full tiny game into a journal file and returns
// its path.
func recordJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pairs.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	s := newTestSession(t, st, 42)
	s.handle("difficulty tiny")
	s.handle("flip " + strconv.Itoa(s.cardWith(t, "sun")))
	s.handle("flip " + strconv.Itoa(s.cardWith(t, "moon")))
	s.clock.Advance(800 * time.Millisecond)
	for _, img := range []preset.ImageID{"sun", "moon"} {
		s.handle("flip " + strconv.Itoa(s.cardWith(t, img)))
		s.handle("flip " + strconv.Itoa(s.cardWith(t, img)))
		s.clock.Advance(800 * time.Millisecond)
	}
	require.True(t, s.engine.IsGameOver())
	return path
}
