package world

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Room placement parameters
const (
	roomPlacementTrials = 40 // Samples per room before the planner gives up
	roomEdgeClearance   = 2  // Wall ring plus one corridor lane inside the usable area
)

// builder holds the transient state of one generation attempt.
type builder struct {
	params    GenerationParameters
	stream    *Stream
	tracer    trace.Tracer
	log       logr.Logger
	area      Rect
	rooms     []Room
	corridors []Corridor
	blocked   []bool // Room interiors and wall rings
}

func newBuilder(p GenerationParameters, stream *Stream, tracer trace.Tracer, log logr.Logger) *builder {
	return &builder{
		params:  p,
		stream:  stream,
		tracer:  tracer,
		log:     log,
		area:    p.usable(),
		rooms:   make([]Room, 0, p.MaxRooms),
		blocked: make([]bool, p.Width*p.Height),
	}
}

// planRooms samples rooms until the target count is reached or a room cannot
// be placed within its trial budget. The partial set is kept in that case.
func (b *builder) planRooms(ctx context.Context) {
	_, span := b.tracer.Start(ctx, "rooms.plan")
	defer span.End()

	p := b.params
	target := b.stream.Between(p.MinRooms, p.MaxRooms)

	for len(b.rooms) < target {
		if !b.placeRoom() {
			b.log.V(1).Info("room placement gave up", "placed", len(b.rooms), "target", target)
			break
		}
	}

	span.SetAttributes(
		attribute.Int("rooms.target", target),
		attribute.Int("rooms.placed", len(b.rooms)),
	)
}

// placeRoom tries to add one room, returning false if every trial was rejected.
func (b *builder) placeRoom() bool {
	p := b.params
	for trial := 0; trial < roomPlacementTrials; trial++ {
		w := b.stream.Between(p.MinRoomWidth, p.MaxRoomWidth)
		h := b.stream.Between(p.MinRoomHeight, p.MaxRoomHeight)

		minX, maxX := b.area.X+roomEdgeClearance, b.area.X+b.area.Width-roomEdgeClearance-w
		minY, maxY := b.area.Y+roomEdgeClearance, b.area.Y+b.area.Height-roomEdgeClearance-h
		if maxX < minX || maxY < minY {
			continue // Too large for the grid
		}

		r := Rect{
			X:      b.stream.Between(minX, maxX),
			Y:      b.stream.Between(minY, maxY),
			Width:  w,
			Height: h,
		}
		if err := b.addRoom(r); err == nil {
			return true
		}
	}
	return false
}

// addRoom inserts a room after checking bounds and separation.
func (b *builder) addRoom(r Rect) error {
	inner := Rect{
		X:      b.area.X + roomEdgeClearance,
		Y:      b.area.Y + roomEdgeClearance,
		Width:  b.area.Width - 2*roomEdgeClearance,
		Height: b.area.Height - 2*roomEdgeClearance,
	}
	if r.Width < 1 || r.Height < 1 ||
		r.X < inner.X || r.Y < inner.Y ||
		r.X+r.Width > inner.X+inner.Width || r.Y+r.Height > inner.Y+inner.Height {
		return fmt.Errorf("%w: room %+v outside usable area", ErrInvalidArgument, r)
	}

	spaced := r.Expand(b.params.Separation)
	for _, other := range b.rooms {
		if spaced.Intersects(other.Bounds) {
			return fmt.Errorf("%w: room %+v too close to room %d", ErrIllegalOverlap, r, other.Index)
		}
	}

	room := newRoom(len(b.rooms), r)
	b.rooms = append(b.rooms, room)

	ring := r.Expand(1)
	for y := ring.Y; y < ring.Y+ring.Height; y++ {
		for x := ring.X; x < ring.X+ring.Width; x++ {
			b.blocked[b.index(Point{X: x, Y: y})] = true
		}
	}
	return nil
}

// free reports whether a corridor may occupy p.
func (b *builder) free(p Point) bool {
	return b.area.Contains(p) && !b.blocked[b.index(p)]
}

func (b *builder) index(p Point) int {
	return p.Y*b.params.Width + p.X
}
