// Package world provides procedural dungeon generation.
package world

import "fmt"

// Tile represents a single map tile.
type Tile rune

const (
	// TileWall represents an impassable wall tile.
	TileWall Tile = '#'
	// TileFloor represents a passable floor tile.
	TileFloor Tile = '.'
	// TileDoor marks where a corridor attaches to a room.
	TileDoor Tile = '+'
	// TileStairsUp is the entry of the level.
	TileStairsUp Tile = '<'
	// TileStairsDown is the exit of the level.
	TileStairsDown Tile = '>'
	// TileFeature marks a treasure spot.
	TileFeature Tile = '$'
)

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	switch t {
	case TileFloor, TileDoor, TileStairsUp, TileStairsDown, TileFeature:
		return true
	default:
		return false
	}
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

// String returns a human-readable tile name.
func (t Tile) String() string {
	switch t {
	case TileWall:
		return "wall"
	case TileFloor:
		return "floor"
	case TileDoor:
		return "door"
	case TileStairsUp:
		return "stairs-up"
	case TileStairsDown:
		return "stairs-down"
	case TileFeature:
		return "feature"
	default:
		return fmt.Sprintf("tile(%q)", rune(t))
	}
}

// OwnerKind tells which structure a cell belongs to.
type OwnerKind uint8

const (
	OwnerNone OwnerKind = iota
	OwnerRoom
	OwnerCorridor
)

// Owner identifies the room or corridor a cell belongs to.
// Index is meaningless when Kind is OwnerNone.
type Owner struct {
	Kind  OwnerKind
	Index int
}
