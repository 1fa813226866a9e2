package game

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeongen/internal/presets"
	"github.com/samdwyer/dungeongen/internal/telemetry"
	"github.com/samdwyer/dungeongen/internal/ui"
	"github.com/samdwyer/dungeongen/internal/world"
)

// Game holds the viewer state.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	gen      *world.Generator
	log      logr.Logger

	params  world.GenerationParameters
	levels  int
	maps    []*world.DungeonMap
	level   int
	marker  world.Point
	state   State
	message string
	running bool
}

// New creates a viewer that draws to screen. levels maps are generated per
// seed, starting from params.Seed.
func New(screen *ui.Screen, palette presets.Palette, gen *world.Generator, params world.GenerationParameters, levels int, log logr.Logger) *Game {
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, palette),
		gen:      gen,
		log:      log,
		params:   params,
		levels:   levels,
		state:    StateWalk,
		running:  true,
	}
}

// Run generates the levels and executes the viewer loop until the user quits.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	if err := g.load(ctx); err != nil {
		return err
	}

	for g.running {
		g.render()
		g.handleInput(ctx)
	}
	return nil
}

// load generates all levels for the current seed and places the marker on
// the first level's entry.
func (g *Game) load(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.load")
	defer span.End()

	maps, err := g.gen.GenerateLevels(ctx, g.params, g.levels)
	if err != nil {
		span.RecordError(err)
		return err
	}
	g.maps = maps
	g.setLevel(0)

	span.SetAttributes(
		attribute.Int64("dungeon.seed", g.params.Seed),
		attribute.Int("dungeon.levels", len(maps)),
	)
	g.log.V(1).Info("levels loaded", "seed", g.params.Seed, "levels", len(maps))
	return nil
}

func (g *Game) current() *world.DungeonMap {
	return g.maps[g.level]
}

func (g *Game) setLevel(level int) {
	g.level = level
	g.marker = g.current().Entry
	g.message = ""
}

func (g *Game) render() {
	g.renderer.Render(g.current(), g.marker.X, g.marker.Y, g.status())
}

// status builds the line shown below the map.
func (g *Game) status() string {
	m := g.current()
	s := fmt.Sprintf("seed %d  level %d/%d  rooms %d  %s", m.Seed, g.level+1, len(g.maps), len(m.Rooms), g.state)
	if g.state == StateInspect {
		tile := m.TileAt(g.marker.X, g.marker.Y)
		s += fmt.Sprintf("  (%d,%d) %s", g.marker.X, g.marker.Y, tile)
		if room := m.RoomIndexAt(g.marker.X, g.marker.Y); room >= 0 {
			s += fmt.Sprintf(" room %d", room)
		}
	}
	if g.message != "" {
		s += "  " + g.message
	}
	return s
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKey(ctx, ev.Key(), ev.Rune())
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKey processes keyboard input.
func (g *Game) handleKey(ctx context.Context, key tcell.Key, ch rune) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.move(0, -1)
	case tcell.KeyDown:
		g.move(0, 1)
	case tcell.KeyLeft:
		g.move(-1, 0)
	case tcell.KeyRight:
		g.move(1, 0)

	case tcell.KeyRune:
		switch ch {
		case 'q', 'Q':
			g.running = false
		case 'n', '>':
			if g.level+1 < len(g.maps) {
				g.setLevel(g.level + 1)
			}
		case 'p', '<':
			if g.level > 0 {
				g.setLevel(g.level - 1)
			}
		case 'r', 'R':
			g.reroll(ctx)
		case 'i', 'I':
			g.toggleInspect()
		}
	}
}

// move shifts the marker. In walk mode it only enters passable tiles.
func (g *Game) move(dx, dy int) {
	m := g.current()
	nx, ny := g.marker.X+dx, g.marker.Y+dy

	switch g.state {
	case StateInspect:
		if nx >= 0 && ny >= 0 && nx < m.Width() && ny < m.Height() {
			g.marker = world.Point{X: nx, Y: ny}
		}
	default:
		if m.IsPassable(nx, ny) {
			g.marker = world.Point{X: nx, Y: ny}
		}
	}

	if g.state == StateWalk && g.marker == m.Exit {
		g.message = "stairs down"
	} else {
		g.message = ""
	}
}

// toggleInspect switches between walk and inspect mode. Leaving inspect mode
// returns the marker to the entry if it rests on a wall.
func (g *Game) toggleInspect() {
	if g.state == StateWalk {
		g.state = StateInspect
		return
	}
	g.state = StateWalk
	if !g.current().IsPassable(g.marker.X, g.marker.Y) {
		g.marker = g.current().Entry
	}
}

// reroll regenerates the levels with the next seed.
func (g *Game) reroll(ctx context.Context) {
	prev := g.params.Seed
	g.params.Seed++
	if err := g.load(ctx); err != nil {
		g.log.Error(err, "reroll failed", "seed", g.params.Seed)
		g.params.Seed = prev
		g.message = "reroll failed: " + err.Error()
	}
}
