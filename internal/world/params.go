package world

import (
	"fmt"
	"math"
	"strings"
)

const (
	// Default dungeon dimensions
	DefaultWidth  = 80
	DefaultHeight = 24

	DefaultMaxAttempts = 10
)

// CorridorStyle selects how corridors between two doors are carved.
type CorridorStyle int

const (
	// CorridorStraight carves an L-shaped path.
	CorridorStraight CorridorStyle = iota
	// CorridorRandomWalk carves a loop-erased walk biased toward the target door.
	CorridorRandomWalk
)

// String returns the style name used in presets and flags.
func (c CorridorStyle) String() string {
	switch c {
	case CorridorStraight:
		return "straight"
	case CorridorRandomWalk:
		return "random-walk"
	default:
		return "unknown"
	}
}

// ParseCorridorStyle parses a style name as produced by String.
func ParseCorridorStyle(s string) (CorridorStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "straight":
		return CorridorStraight, nil
	case "random-walk", "randomwalk", "walk":
		return CorridorRandomWalk, nil
	}
	return 0, fmt.Errorf("%w: unknown corridor style %q", ErrInvalidArgument, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c CorridorStyle) MarshalText() ([]byte, error) {
	if c != CorridorStraight && c != CorridorRandomWalk {
		return nil, fmt.Errorf("%w: unknown corridor style %d", ErrInvalidArgument, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CorridorStyle) UnmarshalText(b []byte) error {
	style, err := ParseCorridorStyle(string(b))
	if err != nil {
		return err
	}
	*c = style
	return nil
}

// GenerationParameters fully determine one generation run.
type GenerationParameters struct {
	Seed   int64 `json:"seed"`
	Width  int   `json:"width"`
	Height int   `json:"height"`

	MinRooms int `json:"minRooms"`
	MaxRooms int `json:"maxRooms"`

	MinRoomWidth  int `json:"minRoomWidth"`
	MinRoomHeight int `json:"minRoomHeight"`
	MaxRoomWidth  int `json:"maxRoomWidth"`
	MaxRoomHeight int `json:"maxRoomHeight"`

	CorridorStyle CorridorStyle `json:"corridorStyle"`

	// ExtraLoopChance is the per-room probability of an additional corridor
	// beyond the spanning tree.
	ExtraLoopChance float64 `json:"extraLoopChance"`

	MaxAttempts int `json:"maxAttempts"`

	// Margin is the number of wall cells kept along every grid edge.
	Margin int `json:"margin"`
	// Separation is the minimum gap in cells between two room interiors.
	Separation int `json:"separation"`
}

// DefaultParameters returns a parameter set that generates a typical level.
func DefaultParameters() GenerationParameters {
	return GenerationParameters{
		Seed:            1,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		MinRooms:        5,
		MaxRooms:        8,
		MinRoomWidth:    4,
		MinRoomHeight:   3,
		MaxRoomWidth:    10,
		MaxRoomHeight:   6,
		CorridorStyle:   CorridorStraight,
		ExtraLoopChance: 0.15,
		MaxAttempts:     DefaultMaxAttempts,
		Margin:          1,
		Separation:      3,
	}
}

// Validate checks the parameters before any randomness is drawn.
func (p GenerationParameters) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return invalidf("grid must be positive, got %dx%d", p.Width, p.Height)
	case p.MinRooms < 1:
		return invalidf("minRooms must be at least 1, got %d", p.MinRooms)
	case p.MaxRooms < 2:
		return invalidf("maxRooms must be at least 2, got %d", p.MaxRooms)
	case p.MinRooms > p.MaxRooms:
		return invalidf("empty room count range [%d,%d]", p.MinRooms, p.MaxRooms)
	case p.MinRoomWidth < 1 || p.MinRoomHeight < 1:
		return invalidf("minimum room size must be positive, got %dx%d", p.MinRoomWidth, p.MinRoomHeight)
	case p.MinRoomWidth > p.MaxRoomWidth || p.MinRoomHeight > p.MaxRoomHeight:
		return invalidf("empty room size range %dx%d..%dx%d",
			p.MinRoomWidth, p.MinRoomHeight, p.MaxRoomWidth, p.MaxRoomHeight)
	case p.CorridorStyle != CorridorStraight && p.CorridorStyle != CorridorRandomWalk:
		return invalidf("unknown corridor style %d", int(p.CorridorStyle))
	case p.ExtraLoopChance < 0 || p.ExtraLoopChance > 1 || math.IsNaN(p.ExtraLoopChance):
		return invalidf("extraLoopChance must be in [0,1], got %v", p.ExtraLoopChance)
	case p.MaxAttempts < 1:
		return invalidf("maxAttempts must be positive, got %d", p.MaxAttempts)
	case p.Margin < 0:
		return invalidf("margin must not be negative, got %d", p.Margin)
	case p.Separation < 1:
		return invalidf("separation must be at least 1, got %d", p.Separation)
	}
	return nil
}

// requiredRooms is the fewest rooms an attempt may proceed with.
func (p GenerationParameters) requiredRooms() int {
	return max(2, p.MinRooms)
}

// usable is the region non-wall cells may occupy.
func (p GenerationParameters) usable() Rect {
	return Rect{
		X:      p.Margin,
		Y:      p.Margin,
		Width:  p.Width - 2*p.Margin,
		Height: p.Height - 2*p.Margin,
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
