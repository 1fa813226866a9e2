package world

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *GenerationParameters)
		valid  bool
	}{
		{"defaults", func(p *GenerationParameters) {}, true},
		{"zero width", func(p *GenerationParameters) { p.Width = 0 }, false},
		{"negative height", func(p *GenerationParameters) { p.Height = -1 }, false},
		{"zero min rooms", func(p *GenerationParameters) { p.MinRooms = 0 }, false},
		{"single room", func(p *GenerationParameters) { p.MinRooms, p.MaxRooms = 1, 1 }, false},
		{"empty room range", func(p *GenerationParameters) { p.MinRooms, p.MaxRooms = 6, 5 }, false},
		{"zero room width", func(p *GenerationParameters) { p.MinRoomWidth = 0 }, false},
		{"inverted room height", func(p *GenerationParameters) { p.MinRoomHeight, p.MaxRoomHeight = 5, 4 }, false},
		{"unknown style", func(p *GenerationParameters) { p.CorridorStyle = 7 }, false},
		{"loop chance above one", func(p *GenerationParameters) { p.ExtraLoopChance = 1.5 }, false},
		{"loop chance NaN", func(p *GenerationParameters) { p.ExtraLoopChance = math.NaN() }, false},
		{"loop chance one", func(p *GenerationParameters) { p.ExtraLoopChance = 1 }, true},
		{"zero attempts", func(p *GenerationParameters) { p.MaxAttempts = 0 }, false},
		{"negative margin", func(p *GenerationParameters) { p.Margin = -1 }, false},
		{"zero margin", func(p *GenerationParameters) { p.Margin = 0 }, true},
		{"zero separation", func(p *GenerationParameters) { p.Separation = 0 }, false},
	}

	for _, tt := range tests {
		p := DefaultParameters()
		tt.modify(&p)
		err := p.Validate()
		if tt.valid && err != nil {
			t.Errorf("%s: expected valid, got %v", tt.name, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", tt.name, err)
		}
	}
}

func TestParametersJSON(t *testing.T) {
	raw := `{"seed":9,"width":50,"height":40,"minRooms":3,"maxRooms":6,
		"minRoomWidth":3,"minRoomHeight":3,"maxRoomWidth":7,"maxRoomHeight":5,
		"corridorStyle":"random-walk","extraLoopChance":0.5,"maxAttempts":4,
		"margin":2,"separation":4}`

	var p GenerationParameters
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.CorridorStyle != CorridorRandomWalk || p.Seed != 9 || p.Margin != 2 {
		t.Errorf("Unexpected parameters: %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Decoded parameters invalid: %v", err)
	}

	if err := json.Unmarshal([]byte(`{"corridorStyle":"spiral"}`), &p); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for unknown style, got %v", err)
	}
}

func TestParseCorridorStyle(t *testing.T) {
	tests := []struct {
		input string
		want  CorridorStyle
		valid bool
	}{
		{"straight", CorridorStraight, true},
		{"Random-Walk", CorridorRandomWalk, true},
		{" walk ", CorridorRandomWalk, true},
		{"zigzag", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseCorridorStyle(tt.input)
		if tt.valid && (err != nil || got != tt.want) {
			t.Errorf("ParseCorridorStyle(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
		if !tt.valid && err == nil {
			t.Errorf("ParseCorridorStyle(%q) should fail", tt.input)
		}
	}
}
