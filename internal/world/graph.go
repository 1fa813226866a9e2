package world

import (
	"sort"

	"github.com/zyedidia/generic/queue"
)

// Edge links two rooms through a corridor.
type Edge struct {
	A, B     int // Room indices
	Corridor int // Index into DungeonMap.Corridors
}

// ConnectivityGraph has rooms as nodes and corridors as edges.
type ConnectivityGraph struct {
	edges []Edge
	adj   [][]int
}

// NewConnectivityGraph creates a graph with n rooms and no corridors.
func NewConnectivityGraph(n int) *ConnectivityGraph {
	return &ConnectivityGraph{adj: make([][]int, n)}
}

// Len returns the number of rooms.
func (g *ConnectivityGraph) Len() int {
	return len(g.adj)
}

// AddEdge links rooms a and b through the given corridor.
func (g *ConnectivityGraph) AddEdge(a, b, corridor int) {
	g.edges = append(g.edges, Edge{A: a, B: b, Corridor: corridor})
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
}

// Edges returns a copy of the edge list in insertion order.
func (g *ConnectivityGraph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Degree returns the number of corridors attached to a room.
func (g *ConnectivityGraph) Degree(room int) int {
	return len(g.adj[room])
}

// Components groups rooms by reachability. Rooms are ascending within a
// component and components are ordered by their lowest room.
func (g *ConnectivityGraph) Components() [][]int {
	uf := newUnionFind(len(g.adj))
	for _, e := range g.edges {
		uf.union(e.A, e.B)
	}

	byRoot := make(map[int]int)
	var comps [][]int
	for room := range g.adj {
		root := uf.find(room)
		i, ok := byRoot[root]
		if !ok {
			i = len(comps)
			byRoot[root] = i
			comps = append(comps, nil)
		}
		comps[i] = append(comps[i], room)
	}
	return comps
}

// Connected reports whether every room is reachable from every other.
func (g *ConnectivityGraph) Connected() bool {
	return len(g.Components()) <= 1
}

// Distances returns corridor hop counts from a room, -1 for unreachable rooms.
func (g *ConnectivityGraph) Distances(from int) []int {
	dist := make([]int, len(g.adj))
	for i := range dist {
		dist[i] = -1
	}
	dist[from] = 0

	q := queue.New[int]()
	q.Enqueue(from)
	for !q.Empty() {
		cur := q.Dequeue()
		next := append([]int(nil), g.adj[cur]...)
		sort.Ints(next)
		for _, n := range next {
			if dist[n] < 0 {
				dist[n] = dist[cur] + 1
				q.Enqueue(n)
			}
		}
	}
	return dist
}

// unionFind is a disjoint-set forest with path halving and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
