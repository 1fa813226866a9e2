package world

import (
	"context"
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
	"go.opentelemetry.io/otel/attribute"
)

// Corridor carving parameters
const (
	corridorRetries = 6   // Door pairs tried before falling back to a routed path
	walkBias        = 0.7 // Probability a walk step heads toward the target door
)

// Corridor is a path of floor cells joining a door of one room to a door of
// another. Path[0] touches Doors[0] and the last cell touches Doors[1];
// consecutive cells are 4-directionally adjacent.
type Corridor struct {
	From  int      `json:"from"`
	To    int      `json:"to"`
	Doors [2]Point `json:"doors"`
	Path  []Point  `json:"path"`
}

type edge struct {
	a, b int
}

// carveCorridors plans the room graph and carves a corridor for every edge.
// Edges that cannot be carved are dropped; the validator repairs the graph.
func (b *builder) carveCorridors(ctx context.Context) *ConnectivityGraph {
	_, span := b.tracer.Start(ctx, "corridors.carve")
	defer span.End()

	graph := NewConnectivityGraph(len(b.rooms))
	edges := b.planEdges()
	dropped := 0
	for _, e := range edges {
		c, err := b.connect(e.a, e.b)
		if err != nil {
			dropped++
			b.log.V(1).Info("corridor dropped", "from", e.a, "to", e.b, "error", err.Error())
			continue
		}
		graph.AddEdge(c.From, c.To, b.commit(c))
	}

	span.SetAttributes(
		attribute.Int("corridors.planned", len(edges)),
		attribute.Int("corridors.dropped", dropped),
	)
	return graph
}

// planEdges returns a spanning tree grown from room 0 by nearest centroid
// distance, followed by the random extra loops.
func (b *builder) planEdges() []edge {
	n := len(b.rooms)
	edges := make([]edge, 0, n+n/2)
	linked := make(map[edge]bool)

	inTree := make([]bool, n)
	inTree[0] = true
	for added := 1; added < n; added++ {
		best, bestDist := edge{-1, -1}, -1
		for i := 0; i < n; i++ {
			if !inTree[i] {
				continue
			}
			for j := 0; j < n; j++ {
				if inTree[j] {
					continue
				}
				if d := b.centroidDist(i, j); bestDist < 0 || d < bestDist {
					best, bestDist = edge{i, j}, d
				}
			}
		}
		inTree[best.b] = true
		edges = append(edges, best)
		linked[ordered(best)] = true
	}

	for i := 0; i < n; i++ {
		if !b.stream.Chance(b.params.ExtraLoopChance) {
			continue
		}
		nearest, nearestDist := -1, -1
		for j := 0; j < n; j++ {
			if j == i || linked[ordered(edge{i, j})] {
				continue
			}
			if d := b.centroidDist(i, j); nearestDist < 0 || d < nearestDist {
				nearest, nearestDist = j, d
			}
		}
		if nearest >= 0 {
			e := edge{i, nearest}
			edges = append(edges, e)
			linked[ordered(e)] = true
		}
	}
	return edges
}

// connect carves a corridor between rooms a and c. Random door pairs are
// tried first with the configured style; a routed shortest path is the
// fallback.
func (b *builder) connect(a, c int) (Corridor, error) {
	doorsA, doorsC := b.usableDoors(a), b.usableDoors(c)
	if len(doorsA) == 0 || len(doorsC) == 0 {
		return Corridor{}, fmt.Errorf("%w: no usable door between rooms %d and %d", ErrIllegalOverlap, a, c)
	}

	for try := 0; try < corridorRetries; try++ {
		da := doorsA[b.stream.Intn(len(doorsA))]
		dc := doorsC[b.stream.Intn(len(doorsC))]
		sa, _ := b.rooms[a].Outward(da)
		sc, _ := b.rooms[c].Outward(dc)

		path, err := b.carvePath(sa, sc)
		if err == nil {
			return Corridor{From: a, To: c, Doors: [2]Point{da, dc}, Path: path}, nil
		}
		if !errors.Is(err, ErrIllegalOverlap) {
			return Corridor{}, err
		}
	}

	b.log.V(1).Info("corridor falling back to routed path", "from", a, "to", c)
	return b.route(a, c)
}

// carvePath joins two corridor end cells with the configured style.
func (b *builder) carvePath(from, to Point) ([]Point, error) {
	if b.params.CorridorStyle == CorridorRandomWalk {
		return b.walkPath(from, to)
	}
	return b.straightPath(from, to)
}

// straightPath builds an L-shaped path, horizontal or vertical leg first.
func (b *builder) straightPath(from, to Point) ([]Point, error) {
	path := make([]Point, 0, from.Manhattan(to)+1)
	cur := from
	path = append(path, cur)

	stepX := func() {
		for cur.X != to.X {
			cur.X += sign(to.X - cur.X)
			path = append(path, cur)
		}
	}
	stepY := func() {
		for cur.Y != to.Y {
			cur.Y += sign(to.Y - cur.Y)
			path = append(path, cur)
		}
	}

	if b.stream.Intn(2) == 0 {
		stepX()
		stepY()
	} else {
		stepY()
		stepX()
	}

	for _, p := range path {
		if !b.free(p) {
			return nil, fmt.Errorf("%w: straight path %v -> %v crosses %v", ErrIllegalOverlap, from, to, p)
		}
	}
	return path, nil
}

// walkPath performs a loop-erased walk biased toward the target. Steps into
// rooms or off the usable area are rerolled.
func (b *builder) walkPath(from, to Point) ([]Point, error) {
	path := []Point{from}
	seen := map[Point]int{from: 0}
	limit := 4*(from.Manhattan(to)+1) + b.params.Width + b.params.Height

	cur := from
	for step := 0; cur != to; step++ {
		if step >= limit {
			return nil, fmt.Errorf("%w: walk %v -> %v blocked after %d steps", ErrIllegalOverlap, from, to, step)
		}

		var d Point
		if b.stream.Chance(walkBias) {
			d = b.toward(cur, to)
		} else {
			d = directions[b.stream.Intn(len(directions))]
		}

		next := cur.Add(d)
		if !b.free(next) {
			continue
		}
		if i, ok := seen[next]; ok {
			for _, p := range path[i+1:] {
				delete(seen, p)
			}
			path = path[:i+1]
		} else {
			seen[next] = len(path)
			path = append(path, next)
		}
		cur = next
	}
	return path, nil
}

// toward picks a unit step that reduces the distance to target, choosing the
// axis in proportion to the remaining distance along it.
func (b *builder) toward(cur, target Point) Point {
	dx, dy := target.X-cur.X, target.Y-cur.Y
	switch {
	case dx == 0:
		return Point{Y: sign(dy)}
	case dy == 0:
		return Point{X: sign(dx)}
	case b.stream.Intn(abs(dx)+abs(dy)) < abs(dx):
		return Point{X: sign(dx)}
	default:
		return Point{Y: sign(dy)}
	}
}

// route finds a shortest corridor between any usable door of room a and any
// usable door of room c. It draws no randomness.
func (b *builder) route(a, c int) (Corridor, error) {
	startDoor := make(map[Point]Point)
	for _, d := range b.usableDoors(a) {
		out, _ := b.rooms[a].Outward(d)
		startDoor[out] = d
	}
	goalDoor := make(map[Point]Point)
	goals := mapset.New[Point]()
	for _, d := range b.usableDoors(c) {
		out, _ := b.rooms[c].Outward(d)
		goalDoor[out] = d
		goals.Put(out)
	}
	if len(startDoor) == 0 || goals.Size() == 0 {
		return Corridor{}, fmt.Errorf("%w: no usable door between rooms %d and %d", ErrIllegalOverlap, a, c)
	}

	parent := make([]int, len(b.blocked))
	for i := range parent {
		parent[i] = -1
	}

	frontier := queue.New[Point]()
	for _, d := range b.usableDoors(a) {
		out, _ := b.rooms[a].Outward(d)
		if idx := b.index(out); parent[idx] < 0 {
			parent[idx] = idx
			frontier.Enqueue(out)
		}
	}

	for !frontier.Empty() {
		cur := frontier.Dequeue()
		if goals.Has(cur) {
			path := b.tracePath(parent, cur)
			return Corridor{
				From:  a,
				To:    c,
				Doors: [2]Point{startDoor[path[0]], goalDoor[cur]},
				Path:  path,
			}, nil
		}
		for _, d := range directions {
			next := cur.Add(d)
			if !b.free(next) {
				continue
			}
			if idx := b.index(next); parent[idx] < 0 {
				parent[idx] = b.index(cur)
				frontier.Enqueue(next)
			}
		}
	}
	return Corridor{}, fmt.Errorf("%w: no route between rooms %d and %d", ErrIllegalOverlap, a, c)
}

func (b *builder) tracePath(parent []int, end Point) []Point {
	var rev []Point
	idx := b.index(end)
	for {
		rev = append(rev, Point{X: idx % b.params.Width, Y: idx / b.params.Width})
		if parent[idx] == idx {
			break
		}
		idx = parent[idx]
	}
	path := make([]Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

// usableDoors returns the door candidates whose outside cell is open.
func (b *builder) usableDoors(room int) []Point {
	r := b.rooms[room]
	out := make([]Point, 0, len(r.DoorCandidates))
	for _, d := range r.DoorCandidates {
		if o, ok := r.Outward(d); ok && b.free(o) {
			out = append(out, d)
		}
	}
	return out
}

// commit records a corridor and its doors, returning the corridor index.
func (b *builder) commit(c Corridor) int {
	b.rooms[c.From].Doors = appendUnique(b.rooms[c.From].Doors, c.Doors[0])
	b.rooms[c.To].Doors = appendUnique(b.rooms[c.To].Doors, c.Doors[1])
	b.corridors = append(b.corridors, c)
	return len(b.corridors) - 1
}

func (b *builder) centroidDist(i, j int) int {
	ci, cj := b.rooms[i].Center(), b.rooms[j].Center()
	dx, dy := ci.X-cj.X, ci.Y-cj.Y
	return dx*dx + dy*dy
}

func ordered(e edge) edge {
	if e.a > e.b {
		return edge{e.b, e.a}
	}
	return e
}

func appendUnique(points []Point, p Point) []Point {
	for _, q := range points {
		if q == p {
			return points
		}
	}
	return append(points, p)
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
