package world

import (
	"encoding/binary"
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// DungeonMap is the finished level handed to rendering and gameplay code.
// The generator keeps no reference to it.
type DungeonMap struct {
	Seed      int64      `json:"seed"`
	Level     int        `json:"level"`
	Grid      Grid       `json:"grid"`
	Rooms     []Room     `json:"rooms"`
	Corridors []Corridor `json:"corridors"`
	Entry     Point      `json:"entry"` // Stairs-up cell
	Exit      Point      `json:"exit"`  // Stairs-down cell
	EntryRoom int        `json:"entryRoom"`
	ExitRoom  int        `json:"exitRoom"`
	Attempts  int        `json:"attempts"` // Generation attempts used
}

// Width returns the grid width.
func (m *DungeonMap) Width() int { return m.Grid.Width() }

// Height returns the grid height.
func (m *DungeonMap) Height() int { return m.Grid.Height() }

// TileAt returns the tile at the given position.
func (m *DungeonMap) TileAt(x, y int) Tile {
	return m.Grid.At(Point{X: x, Y: y})
}

// IsPassable returns true if the given position can be walked on.
func (m *DungeonMap) IsPassable(x, y int) bool {
	return m.TileAt(x, y).IsPassable()
}

// RoomIndexAt returns the index of the room whose interior contains the
// position, or -1 if not in a room.
func (m *DungeonMap) RoomIndexAt(x, y int) int {
	p := Point{X: x, Y: y}
	if o := m.Grid.OwnerAt(p); o.Kind == OwnerRoom && m.Rooms[o.Index].Contains(p) {
		return o.Index
	}
	return -1
}

// Graph rebuilds the room connectivity graph from the corridor list.
func (m *DungeonMap) Graph() *ConnectivityGraph {
	g := NewConnectivityGraph(len(m.Rooms))
	for i, c := range m.Corridors {
		g.AddEdge(c.From, c.To, i)
	}
	return g
}

// String renders the map as ASCII rows.
func (m *DungeonMap) String() string {
	return m.Grid.String()
}

// Fingerprint hashes the tiles and room/corridor layout. Equal maps have
// equal fingerprints.
func (m *DungeonMap) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	put := func(vs ...int) {
		buf = buf[:0]
		for _, v := range vs {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
		}
		_, _ = d.Write(buf)
	}

	put(int(m.Seed), m.Grid.width, m.Grid.height)
	tiles := make([]byte, len(m.Grid.tiles))
	for i, t := range m.Grid.tiles {
		tiles[i] = byte(t)
	}
	_, _ = d.Write(tiles)

	for _, r := range m.Rooms {
		put(r.Bounds.X, r.Bounds.Y, r.Bounds.Width, r.Bounds.Height, len(r.Doors))
	}
	for _, c := range m.Corridors {
		put(c.From, c.To, len(c.Path))
		for _, p := range c.Path {
			put(p.X, p.Y)
		}
	}
	put(m.Entry.X, m.Entry.Y, m.Exit.X, m.Exit.Y)
	return d.Sum64()
}

// ID returns a name-based UUID derived from the fingerprint, so identical
// maps share an ID across runs and machines.
func (m *DungeonMap) ID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("dungeongen:"+strconv.FormatUint(m.Fingerprint(), 16)))
}

// MarshalJSON adds the map ID and fingerprint to the encoded fields.
func (m *DungeonMap) MarshalJSON() ([]byte, error) {
	type plain DungeonMap
	return json.Marshal(struct {
		ID          string `json:"id"`
		Fingerprint string `json:"fingerprint"`
		*plain
	}{
		ID:          m.ID().String(),
		Fingerprint: strconv.FormatUint(m.Fingerprint(), 16),
		plain:       (*plain)(m),
	})
}

// DeriveSeed returns the seed used for a level of a multi-level run.
// Level 0 uses the base seed unchanged.
func DeriveSeed(seed int64, level int) int64 {
	if level == 0 {
		return seed
	}
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(level))
	return int64(xxhash.Sum64(buf[:]))
}
