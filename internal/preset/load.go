package preset

import (
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schema constrains preset files before they are decoded.
const schema = `
#Preset: {
	label?:       string
	pair_count:   int & >0
	grid_columns: int & >0
	card_size?:   int & >=0
	images: [...string]
}
preset: [string]: #Preset
`

// presetFields mirrors one entry under the top-level "preset" struct.
type presetFields struct {
	Label       string    `json:"label"`
	PairCount   int       `json:"pair_count"`
	GridColumns int       `json:"grid_columns"`
	CardSize    int       `json:"card_size"`
	Images      []ImageID `json:"images"`
}

// LoadFile reads a CUE preset catalog.
//
// The file declares presets under a top-level "preset" struct, keyed by name:
//
//	preset: easy: {
//		label:        "Leicht"
//		pair_count:   6
//		grid_columns: 3
//		card_size:    140
//		images: ["coding-1", "coding-2", ...]
//	}
//
// Presets keep their declaration order. Every preset is validated.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset file: %w", err)
	}
	return Parse(data, path)
}

// Parse compiles CUE source into a Catalog. filename is used in error positions.
func Parse(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(schema, cue.Filename("preset-schema.cue"))
	if err := schemaVal.Err(); err != nil {
		return nil, fmt.Errorf("compile preset schema: %w", err)
	}

	fileVal := ctx.CompileBytes(src, cue.Filename(filename))
	if err := fileVal.Err(); err != nil {
		return nil, fmt.Errorf("compile preset file: %w", err)
	}

	value := schemaVal.Unify(fileVal)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate preset file: %w", err)
	}

	presetsVal := value.LookupPath(cue.ParsePath("preset"))
	if !presetsVal.Exists() {
		return nil, &InvalidPresetError{Reason: fmt.Sprintf("%s: no presets declared", filename)}
	}

	iter, err := presetsVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}

	var presets []Preset
	for iter.Next() {
		name := iter.Label()
		if unquoted, err := strconv.Unquote(name); err == nil {
			name = unquoted
		}
		var f presetFields
		if err := iter.Value().Decode(&f); err != nil {
			return nil, fmt.Errorf("decode preset %q: %w", name, err)
		}
		presets = append(presets, Preset{
			Name:        name,
			Label:       f.Label,
			PairCount:   f.PairCount,
			Images:      f.Images,
			GridColumns: f.GridColumns,
			CardSize:    f.CardSize,
		})
	}
	if len(presets) == 0 {
		return nil, &InvalidPresetError{Reason: fmt.Sprintf("%s: no presets declared", filename)}
	}

	return NewCatalog(presets...)
}
