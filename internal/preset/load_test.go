package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCatalog = `
preset: tiny: {
	label:        "Winzig"
	pair_count:   2
	grid_columns: 2
	card_size:    60
	images: ["sun", "moon", "star"]
}
preset: expert: {
	pair_count:   3
	grid_columns: 3
	images: ["a", "b", "c"]
}
`

func TestParse_Valid(t *testing.T) {
	c, err := Parse([]byte(validCatalog), "presets.cue")
	require.NoError(t, err)

	assert.Equal(t, []string{"tiny", "expert"}, c.Names())

	tiny, err := c.Lookup("winzig")
	require.NoError(t, err)
	assert.Equal(t, Preset{
		Name:        "tiny",
		Label:       "Winzig",
		PairCount:   2,
		Images:      []ImageID{"sun", "moon", "star"},
		GridColumns: 2,
		CardSize:    60,
	}, tiny)

	xh, err := c.Lookup("EXPERT")
	require.NoError(t, err)
	assert.Equal(t, 0, xh.CardSize)
	assert.Equal(t, "expert", xh.Title())
}

func TestParse_SchemaViolation(t *testing.T) {
	src := `
preset: broken: {
	pair_count:   0
	grid_columns: 2
	images: ["a"]
}
`
	_, err := Parse([]byte(src), "broken.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate preset file")
}

func TestParse_InsufficientImages(t *testing.T) {
	src := `
preset: short: {
	pair_count:   4
	grid_columns: 2
	images: ["a", "b"]
}
`
	_, err := Parse([]byte(src), "short.cue")
	require.Error(t, err)
	assert.True(t, IsInsufficientImages(err))
}

func TestParse_NoPresets(t *testing.T) {
	_, err := Parse([]byte(`other: 1`), "empty.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no presets declared")
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte(`preset: {`), "bad.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile preset file")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.cue")
	require.NoError(t, os.WriteFile(path, []byte(validCatalog), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read preset file")
}
