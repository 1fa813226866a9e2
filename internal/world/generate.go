package world

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/dungeongen/internal/telemetry"
)

// Generator turns GenerationParameters into DungeonMaps. It holds no
// per-run state and is safe for concurrent use.
type Generator struct {
	log    logr.Logger
	tracer trace.Tracer
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger for attempt and repair diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithTracer overrides the tracer used for generation spans.
func WithTracer(t trace.Tracer) Option {
	return func(g *Generator) { g.tracer = t }
}

// NewGenerator creates a generator that logs nothing and traces through the
// global provider unless configured otherwise.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		log:    logr.Discard(),
		tracer: telemetry.Tracer("world"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a map with a default Generator.
func Generate(ctx context.Context, p GenerationParameters) (*DungeonMap, error) {
	return NewGenerator().Generate(ctx, p)
}

// Generate builds one map from the parameters. Failed attempts restart from
// room planning with the same stream, so later attempts see fresh values.
// Once MaxAttempts attempts have failed it returns an error wrapping both
// ErrGenerationExhausted and the last attempt's cause.
func (g *Generator) Generate(ctx context.Context, p GenerationParameters) (*DungeonMap, error) {
	return g.generate(ctx, p, NewStream(p.Seed))
}

func (g *Generator) generate(ctx context.Context, p GenerationParameters, stream *Stream) (*DungeonMap, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ctx, span := g.tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()
	log := g.log.WithValues("seed", p.Seed)

	attempt := 0
	m, err := backoff.Retry(ctx,
		func() (*DungeonMap, error) {
			attempt++
			return g.attempt(ctx, p, stream, attempt, log)
		},
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
		backoff.WithNotify(func(err error, _ time.Duration) {
			log.V(1).Info("generation attempt failed", "attempt", attempt, "error", err.Error())
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		err = fmt.Errorf("%w after %d attempts: %w", ErrGenerationExhausted, attempt, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation exhausted")
		log.Error(err, "generation failed")
		return nil, err
	}
	m.Attempts = attempt

	span.SetAttributes(
		attribute.Int64("dungeon.seed", p.Seed),
		attribute.Int("dungeon.width", p.Width),
		attribute.Int("dungeon.height", p.Height),
		attribute.Int("dungeon.room_count", len(m.Rooms)),
		attribute.Int("dungeon.corridor_count", len(m.Corridors)),
		attribute.Int("dungeon.attempts", attempt),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return m, nil
}

// attempt runs the pipeline once: plan rooms, carve corridors, validate and
// repair connectivity, assemble.
func (g *Generator) attempt(ctx context.Context, p GenerationParameters, stream *Stream, n int, log logr.Logger) (*DungeonMap, error) {
	ctx, span := g.tracer.Start(ctx, "dungeon.attempt", trace.WithAttributes(attribute.Int("dungeon.attempt", n)))
	defer span.End()

	b := newBuilder(p, stream, g.tracer, log.WithValues("attempt", n))

	b.planRooms(ctx)
	if len(b.rooms) < p.requiredRooms() {
		return nil, fmt.Errorf("%w: placed %d rooms, need %d", ErrInsufficientRooms, len(b.rooms), p.requiredRooms())
	}

	graph := b.carveCorridors(ctx)
	entry := entryRoom(b.rooms)
	if _, err := b.validate(ctx, graph, entry); err != nil {
		return nil, err
	}

	m := b.assemble(ctx, graph, entry)
	if err := verifyReachable(m); err != nil {
		return nil, err
	}
	return m, nil
}

// GenerateLevels builds levels maps concurrently. Level i uses
// DeriveSeed(p.Seed, i); results are in level order.
func (g *Generator) GenerateLevels(ctx context.Context, p GenerationParameters, levels int) ([]*DungeonMap, error) {
	if levels < 1 {
		return nil, invalidf("levels must be positive, got %d", levels)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	maps := make([]*DungeonMap, levels)
	eg, ctx := errgroup.WithContext(ctx)
	for i := range levels {
		eg.Go(func() error {
			lp := p
			lp.Seed = DeriveSeed(p.Seed, i)
			m, err := g.Generate(ctx, lp)
			if err != nil {
				return fmt.Errorf("level %d: %w", i, err)
			}
			m.Level = i
			maps[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return maps, nil
}
