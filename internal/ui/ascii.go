package ui

import (
	"bufio"
	"io"

	"github.com/gookit/color"

	"github.com/samdwyer/dungeongen/internal/presets"
	"github.com/samdwyer/dungeongen/internal/world"
)

// WriteASCII writes the map as text, one row per line. When colored is set
// each tile is wrapped in the palette's truecolor escape codes; gookit/color
// drops them again on terminals without colour support.
func WriteASCII(w io.Writer, m *world.DungeonMap, palette presets.Palette, colored bool) error {
	bw := bufio.NewWriter(w)

	styles := make(map[world.Tile]color.RGBColor)
	if colored {
		for _, t := range []world.Tile{
			world.TileWall, world.TileFloor, world.TileDoor,
			world.TileStairsUp, world.TileStairsDown, world.TileFeature,
		} {
			if hex := palette.Hex(t); hex != "" {
				styles[t] = color.HEX(hex)
			}
		}
	}

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			tile := m.TileAt(x, y)
			if c, ok := styles[tile]; ok {
				if _, err := bw.WriteString(c.Sprint(string(tile.Rune()))); err != nil {
					return err
				}
				continue
			}
			if _, err := bw.WriteRune(tile.Rune()); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

