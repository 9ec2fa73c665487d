package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pairs/internal/testutil"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestEngine_UsesIDGenerator(t *testing.T) {
	e, _, _ := newTestEngine(t, WithIDGenerator(testutil.NewSequentialIDGenerator("game")))

	require.NoError(t, e.ChooseDifficulty(tiny))
	assert.Equal(t, "game-1", e.Snapshot().SessionID)

	require.NoError(t, e.Restart())
	assert.Equal(t, "game-2", e.Snapshot().SessionID)
}
