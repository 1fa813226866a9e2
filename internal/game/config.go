package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables read by LoadConfig.
const (
	EnvSeed      = "DUNGEONGEN_SEED"
	EnvPreset    = "DUNGEONGEN_PRESET"
	EnvLevels    = "DUNGEONGEN_LEVELS"
	EnvFormat    = "DUNGEONGEN_FORMAT"
	EnvColor     = "DUNGEONGEN_COLOR"
	EnvVerbosity = "DUNGEONGEN_VERBOSITY"
)

// Output formats.
const (
	FormatAuto  = "auto" // view on a terminal, ascii otherwise
	FormatView  = "view"
	FormatASCII = "ascii"
	FormatJSON  = "json"
)

// Config holds viewer and CLI configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible dungeon generation.
	// A seed of 0 means a random seed will be generated.
	Seed      int64
	Preset    string
	Levels    int
	Format    string
	Color     bool
	Verbosity int
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Preset: "default",
		Levels: 1,
		Format: FormatAuto,
		Color:  true,
	}
}

// LoadConfig overlays DUNGEONGEN_* environment variables on DefaultConfig.
// getenv is usually os.Getenv.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v := getenv(EnvPreset); v != "" {
		cfg.Preset = v
	}
	if v := getenv(EnvLevels); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLevels, err)
		}
		cfg.Levels = n
	}
	if v := getenv(EnvFormat); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v := getenv(EnvColor); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvColor, err)
		}
		cfg.Color = b
	}
	if v := getenv(EnvVerbosity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvVerbosity, err)
		}
		cfg.Verbosity = n
	}

	return cfg, cfg.Validate()
}

// Validate checks the option ranges.
func (c Config) Validate() error {
	if c.Levels < 1 {
		return fmt.Errorf("levels must be at least 1, got %d", c.Levels)
	}
	switch c.Format {
	case FormatAuto, FormatView, FormatASCII, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative, got %d", c.Verbosity)
	}
	return nil
}
