// Package main is the entry point for dungeongen.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/samdwyer/dungeongen/internal/game"
	"github.com/samdwyer/dungeongen/internal/presets"
	"github.com/samdwyer/dungeongen/internal/telemetry"
	"github.com/samdwyer/dungeongen/internal/ui"
	"github.com/samdwyer/dungeongen/internal/world"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	parseFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	stdr.SetVerbosity(cfg.Verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("dungeongen")

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Error(err, "telemetry setup failed, continuing without traces")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error(err, "telemetry shutdown failed")
			}
		}()
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(err, "dungeongen failed")
		// Deferred shutdown is skipped by os.Exit
		if shutdown != nil {
			_ = shutdown(ctx)
		}
		os.Exit(1)
	}
}

// parseFlags overrides cfg with any command-line flags.
func parseFlags(cfg *game.Config) {
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Generation seed (0 picks one from the clock)")
	flag.StringVar(&cfg.Preset, "preset", cfg.Preset, "Parameter preset: catacombs, compact, default, halls")
	flag.IntVar(&cfg.Levels, "levels", cfg.Levels, "Number of levels to generate")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "Output: auto, view, ascii, json")
	flag.BoolVar(&cfg.Color, "color", cfg.Color, "Colour ASCII output on terminals")
	flag.IntVar(&cfg.Verbosity, "v", cfg.Verbosity, "Log verbosity")
	flag.Parse()
}

func run(ctx context.Context, cfg game.Config, logger logr.Logger) error {
	registry, err := presets.LoadRegistry()
	if err != nil {
		return err
	}
	params, err := registry.Get(cfg.Preset)
	if err != nil {
		return err
	}

	params.Seed = cfg.Seed
	if params.Seed == 0 {
		params.Seed = time.Now().UnixNano()
	}

	gen := world.NewGenerator(world.WithLogger(logger.WithName("world")))
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))

	format := cfg.Format
	if format == game.FormatAuto {
		format = game.FormatASCII
		if stdoutTTY {
			format = game.FormatView
		}
	}

	if format == game.FormatView {
		screen, err := ui.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize screen: %w", err)
		}
		return game.New(screen, registry.Palette(), gen, params, cfg.Levels, logger.WithName("viewer")).Run(ctx)
	}

	maps, err := gen.GenerateLevels(ctx, params, cfg.Levels)
	if err != nil {
		return err
	}
	logger.V(1).Info("generated", "seed", params.Seed, "levels", len(maps), "preset", cfg.Preset)

	switch format {
	case game.FormatJSON:
		return writeJSON(os.Stdout, maps)
	default:
		return writeASCII(os.Stdout, maps, registry.Palette(), cfg.Color && stdoutTTY)
	}
}

func writeJSON(w io.Writer, maps []*world.DungeonMap) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(maps) == 1 {
		return enc.Encode(maps[0])
	}
	return enc.Encode(maps)
}

func writeASCII(w io.Writer, maps []*world.DungeonMap, palette presets.Palette, colored bool) error {
	for i, m := range maps {
		if len(maps) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "level %d  seed %d\n", m.Level+1, m.Seed)
		}
		if err := ui.WriteASCII(w, m, palette, colored); err != nil {
			return err
		}
	}
	return nil
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
// Traces go to Honeycomb when an API key is set, unless an endpoint is
// already configured.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_DUNGEONGEN_API_KEY")
	if apiKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// The .env file may have an unexpanded variable reference that doesn't
	// work, so we construct the headers here
	dataset := os.Getenv("HONEYCOMB_DUNGEONGEN_DATASET")
	if dataset == "" {
		dataset = "dungeongen"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
