package presets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeongen/internal/world"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %q", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return tcell.NewHexColor(int32(rgb)), nil
}

// Color returns the tcell colour for a tile, falling back to fallback when
// the palette has no valid entry.
func (p Palette) Color(t world.Tile, fallback tcell.Color) tcell.Color {
	c, err := ParseHexColor(p.Hex(t))
	if err != nil {
		return fallback
	}
	return c
}

// MarkerColor returns the viewer marker colour.
func (p Palette) MarkerColor() tcell.Color {
	c, err := ParseHexColor(p.Marker)
	if err != nil {
		return tcell.ColorYellow
	}
	return c
}
