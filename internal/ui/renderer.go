package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeongen/internal/presets"
	"github.com/samdwyer/dungeongen/internal/world"
)

// Renderer draws dungeon maps to a Screen.
type Renderer struct {
	screen  *Screen
	palette presets.Palette
	styles  map[world.Tile]tcell.Style
}

// NewRenderer creates a renderer that colours tiles from the palette.
func NewRenderer(screen *Screen, palette presets.Palette) *Renderer {
	r := &Renderer{
		screen:  screen,
		palette: palette,
		styles:  make(map[world.Tile]tcell.Style),
	}
	for _, t := range []world.Tile{
		world.TileWall, world.TileFloor, world.TileDoor,
		world.TileStairsUp, world.TileStairsDown, world.TileFeature,
	} {
		style := tcell.StyleDefault.Foreground(palette.Color(t, tcell.ColorGray))
		if t == world.TileStairsUp || t == world.TileStairsDown {
			style = style.Bold(true)
		}
		r.styles[t] = style
	}
	return r
}

// Render draws the map with the marker at (mx, my) and a status line below.
// Cells beyond the screen are clipped.
func (r *Renderer) Render(m *world.DungeonMap, mx, my int, status string) {
	r.screen.Clear()

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			tile := m.TileAt(x, y)
			r.screen.SetContent(x, y, tile.Rune(), r.tileStyle(tile))
		}
	}

	markerStyle := tcell.StyleDefault.
		Foreground(r.palette.MarkerColor()).
		Bold(true)
	r.screen.SetContent(mx, my, '@', markerStyle)

	r.RenderMessage(status, m.Height())
	r.screen.Show()
}

// tileStyle returns the appropriate style for a tile type.
func (r *Renderer) tileStyle(tile world.Tile) tcell.Style {
	if s, ok := r.styles[tile]; ok {
		return s
	}
	return tcell.StyleDefault
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.screen.DrawText(0, y, msg, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}
