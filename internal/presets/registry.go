package presets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samdwyer/dungeongen/internal/world"
)

const presetsFile = "presets.json"

// Preset is a named parameter set.
type Preset struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Parameters  world.GenerationParameters `json:"parameters"`
}

// Palette maps tile kinds to hex colours (e.g. "#FF0000").
type Palette struct {
	Wall       string `json:"wall"`
	Floor      string `json:"floor"`
	Door       string `json:"door"`
	StairsUp   string `json:"stairsUp"`
	StairsDown string `json:"stairsDown"`
	Feature    string `json:"feature"`
	Marker     string `json:"marker"` // Viewer position marker
}

// Hex returns the colour for a tile, or "" for unknown tiles.
func (p Palette) Hex(t world.Tile) string {
	switch t {
	case world.TileWall:
		return p.Wall
	case world.TileFloor:
		return p.Floor
	case world.TileDoor:
		return p.Door
	case world.TileStairsUp:
		return p.StairsUp
	case world.TileStairsDown:
		return p.StairsDown
	case world.TileFeature:
		return p.Feature
	default:
		return ""
	}
}

// File represents the structure of presets.json.
type File struct {
	Presets []Preset `json:"presets"`
	Palette Palette  `json:"palette"`
}

// Registry holds loaded presets and provides lookup by name.
type Registry struct {
	byName  map[string]*Preset
	all     []Preset
	palette Palette
}

// NewRegistry creates a registry from loaded presets.
func NewRegistry(file File) *Registry {
	r := &Registry{
		byName:  make(map[string]*Preset),
		all:     file.Presets,
		palette: file.Palette,
	}
	for i := range r.all {
		r.byName[r.all[i].Name] = &r.all[i]
	}
	return r
}

// LoadRegistry loads and validates the embedded presets.json.
func LoadRegistry() (*Registry, error) {
	file, err := Load[File](presetsFile)
	if err != nil {
		return nil, err
	}
	if len(file.Presets) == 0 {
		return nil, errors.New("no presets loaded from presets.json")
	}
	for _, p := range file.Presets {
		if err := p.Parameters.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return NewRegistry(file), nil
}

// MustLoadRegistry loads a registry, panicking on error.
func MustLoadRegistry() *Registry {
	r, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the parameters of the named preset.
func (r *Registry) Get(name string) (world.GenerationParameters, error) {
	p, ok := r.byName[name]
	if !ok {
		return world.GenerationParameters{}, fmt.Errorf("%w: unknown preset %q (have %v)", world.ErrInvalidArgument, name, r.Names())
	}
	return p.Parameters, nil
}

// Names returns the preset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.all))
	for _, p := range r.all {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// All returns all presets in file order.
func (r *Registry) All() []Preset {
	return r.all
}

// Palette returns the tile palette.
func (r *Registry) Palette() Palette {
	return r.palette
}
