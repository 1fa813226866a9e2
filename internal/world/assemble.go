package world

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// assemble folds the validated rooms and corridors into a DungeonMap. It
// draws no randomness. Conflicting claims on a cell are programming errors
// and panic.
func (b *builder) assemble(ctx context.Context, graph *ConnectivityGraph, entry int) *DungeonMap {
	_, span := b.tracer.Start(ctx, "map.assemble")
	defer span.End()

	grid := newGrid(b.params.Width, b.params.Height)

	for i, r := range b.rooms {
		for y := r.Bounds.Y; y < r.Bounds.Y+r.Bounds.Height; y++ {
			for x := r.Bounds.X; x < r.Bounds.X+r.Bounds.Width; x++ {
				p := Point{X: x, Y: y}
				if o := grid.OwnerAt(p); o.Kind != OwnerNone {
					panic(fmt.Sprintf("world: cell %v claimed by rooms %d and %d", p, o.Index, i))
				}
				grid.set(p, TileFloor, Owner{Kind: OwnerRoom, Index: i})
			}
		}
	}

	for i, c := range b.corridors {
		for _, p := range c.Path {
			switch o := grid.OwnerAt(p); o.Kind {
			case OwnerRoom:
				panic(fmt.Sprintf("world: corridor %d crosses room %d at %v", i, o.Index, p))
			case OwnerNone:
				grid.set(p, TileFloor, Owner{Kind: OwnerCorridor, Index: i})
			}
		}
	}

	for _, c := range b.corridors {
		grid.set(c.Doors[0], TileDoor, Owner{Kind: OwnerRoom, Index: c.From})
		grid.set(c.Doors[1], TileDoor, Owner{Kind: OwnerRoom, Index: c.To})
	}

	exit := exitRoom(graph, entry)
	entryAt, exitAt := b.rooms[entry].Center(), b.rooms[exit].Center()
	grid.set(entryAt, TileStairsUp, Owner{Kind: OwnerRoom, Index: entry})
	grid.set(exitAt, TileStairsDown, Owner{Kind: OwnerRoom, Index: exit})

	features := 0
	for i, r := range b.rooms {
		if i == entry || i == exit || graph.Degree(i) != 1 {
			continue
		}
		grid.set(r.Center(), TileFeature, Owner{Kind: OwnerRoom, Index: i})
		features++
	}

	rooms := make([]Room, len(b.rooms))
	for i, r := range b.rooms {
		r.DoorCandidates = append([]Point(nil), r.DoorCandidates...)
		r.Doors = append([]Point(nil), r.Doors...)
		rooms[i] = r
	}
	corridors := make([]Corridor, len(b.corridors))
	for i, c := range b.corridors {
		c.Path = append([]Point(nil), c.Path...)
		corridors[i] = c
	}

	span.SetAttributes(
		attribute.Int("map.entry_room", entry),
		attribute.Int("map.exit_room", exit),
		attribute.Int("map.features", features),
	)

	return &DungeonMap{
		Seed:      b.params.Seed,
		Grid:      grid,
		Rooms:     rooms,
		Corridors: corridors,
		Entry:     entryAt,
		Exit:      exitAt,
		EntryRoom: entry,
		ExitRoom:  exit,
	}
}

// exitRoom returns the room farthest from entry in corridor hops, lowest
// index on ties.
func exitRoom(graph *ConnectivityGraph, entry int) int {
	best, bestDist := entry, 0
	for i, d := range graph.Distances(entry) {
		if d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
