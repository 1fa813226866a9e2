package world

import (
	"encoding/json"
	"strings"
)

// Grid is the assembled tile map. It has no exported mutators; once returned
// inside a DungeonMap it never changes.
type Grid struct {
	width, height int
	tiles         []Tile  // indexed [y*width+x]
	owners        []Owner // parallel to tiles
}

func newGrid(width, height int) Grid {
	g := Grid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
		owners: make([]Owner, width*height),
	}
	for i := range g.tiles {
		g.tiles[i] = TileWall
	}
	return g
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// InBounds reports whether p lies on the grid.
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// At returns the tile at p. Positions off the grid read as walls.
func (g Grid) At(p Point) Tile {
	if !g.InBounds(p) {
		return TileWall
	}
	return g.tiles[g.index(p)]
}

// OwnerAt returns the room or corridor p belongs to.
func (g Grid) OwnerAt(p Point) Owner {
	if !g.InBounds(p) {
		return Owner{}
	}
	return g.owners[g.index(p)]
}

// Count returns how many cells hold the given tile.
func (g Grid) Count(t Tile) int {
	n := 0
	for _, c := range g.tiles {
		if c == t {
			n++
		}
	}
	return n
}

// Rows renders each row as a string of tile runes.
func (g Grid) Rows() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			sb.WriteRune(g.tiles[y*g.width+x].Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String renders the grid as newline-separated rows.
func (g Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// MarshalJSON encodes the grid as its dimensions and tile rows.
func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Width  int      `json:"width"`
		Height int      `json:"height"`
		Rows   []string `json:"rows"`
	}{g.width, g.height, g.Rows()})
}

func (g Grid) index(p Point) int {
	return p.Y*g.width + p.X
}

func (g *Grid) set(p Point, t Tile, o Owner) {
	i := g.index(p)
	g.tiles[i] = t
	g.owners[i] = o
}
