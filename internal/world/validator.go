package world

import (
	"context"
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
	"go.opentelemetry.io/otel/attribute"
)

// repairPairsPerComponent bounds the room pairs tried when joining one
// unreachable component to the entry component.
const repairPairsPerComponent = 4

// entryRoom returns the room whose corner is nearest the grid origin,
// lowest index on ties.
func entryRoom(rooms []Room) int {
	best, bestDist := 0, -1
	for i, r := range rooms {
		d := r.Bounds.X*r.Bounds.X + r.Bounds.Y*r.Bounds.Y
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// validate checks that every room is reachable from entry and carves repair
// corridors from unreachable components. It returns the number of repair
// routes tried, or errDisconnected once the repair budget is spent.
func (b *builder) validate(ctx context.Context, graph *ConnectivityGraph, entry int) (int, error) {
	_, span := b.tracer.Start(ctx, "connectivity.validate")
	defer span.End()

	budget := 2 * len(b.rooms)
	repairs := 0
	defer func() {
		span.SetAttributes(attribute.Int("connectivity.repairs", repairs))
	}()

	for {
		comps := graph.Components()
		if len(comps) == 1 {
			return repairs, nil
		}

		reached, lost := splitComponents(comps, entry)
		joined := false
		for _, pr := range b.closestPairs(lost, reached, repairPairsPerComponent) {
			if repairs >= budget {
				return repairs, fmt.Errorf("%w: %d components left after %d repairs", errDisconnected, len(comps), repairs)
			}
			repairs++

			c, err := b.route(pr.a, pr.b)
			if err != nil {
				b.log.V(1).Info("repair route failed", "from", pr.a, "to", pr.b, "error", err.Error())
				continue
			}
			graph.AddEdge(c.From, c.To, b.commit(c))
			b.log.V(1).Info("repaired connectivity", "from", pr.a, "to", pr.b)
			joined = true
			break
		}
		if !joined {
			return repairs, fmt.Errorf("%w: component with room %d cannot reach entry room %d", errDisconnected, lost[0], entry)
		}
	}
}

// splitComponents returns the component holding entry and the first other one.
func splitComponents(comps [][]int, entry int) (reached, lost []int) {
	for _, comp := range comps {
		holdsEntry := false
		for _, r := range comp {
			if r == entry {
				holdsEntry = true
				break
			}
		}
		switch {
		case holdsEntry:
			reached = comp
		case lost == nil:
			lost = comp
		}
	}
	return reached, lost
}

// closestPairs returns up to limit (from, to) room pairs ordered by centroid
// distance, then by room indices.
func (b *builder) closestPairs(from, to []int, limit int) []edge {
	type scored struct {
		e    edge
		dist int
	}
	var pairs []scored
	for _, a := range from {
		for _, c := range to {
			pairs = append(pairs, scored{edge{a, c}, b.centroidDist(a, c)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].dist != pairs[j].dist {
			return pairs[i].dist < pairs[j].dist
		}
		if pairs[i].e.a != pairs[j].e.a {
			return pairs[i].e.a < pairs[j].e.a
		}
		return pairs[i].e.b < pairs[j].e.b
	})

	out := make([]edge, 0, limit)
	for i := 0; i < len(pairs) && i < limit; i++ {
		out = append(out, pairs[i].e)
	}
	return out
}

// verifyReachable flood-fills passable cells from the entry stairs and checks
// that every room interior was reached.
func verifyReachable(m *DungeonMap) error {
	g := m.Grid
	visited := make([]bool, g.width*g.height)
	reached := mapset.New[int]()

	q := queue.New[Point]()
	visited[g.index(m.Entry)] = true
	q.Enqueue(m.Entry)
	for !q.Empty() {
		cur := q.Dequeue()
		if o := g.OwnerAt(cur); o.Kind == OwnerRoom && m.Rooms[o.Index].Contains(cur) {
			reached.Put(o.Index)
		}
		for _, d := range directions {
			next := cur.Add(d)
			if !g.At(next).IsPassable() || visited[g.index(next)] {
				continue
			}
			visited[g.index(next)] = true
			q.Enqueue(next)
		}
	}

	if reached.Size() != len(m.Rooms) {
		return fmt.Errorf("%w: %d of %d rooms reachable from entry", errDisconnected, reached.Size(), len(m.Rooms))
	}
	return nil
}
