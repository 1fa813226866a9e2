package world

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func compactParams() GenerationParameters {
	return GenerationParameters{
		Seed:            42,
		Width:           40,
		Height:          30,
		MinRooms:        5,
		MaxRooms:        8,
		MinRoomWidth:    3,
		MinRoomHeight:   3,
		MaxRoomWidth:    8,
		MaxRoomHeight:   6,
		CorridorStyle:   CorridorStraight,
		ExtraLoopChance: 0.2,
		MaxAttempts:     10,
		Margin:          1,
		Separation:      3,
	}
}

func mustGenerate(t *testing.T, p GenerationParameters) *DungeonMap {
	t.Helper()
	m, err := Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate(seed=%d) failed: %v", p.Seed, err)
	}
	return m
}

func TestDungeonReproducibility(t *testing.T) {
	// Generate two dungeons with the same seed
	p := compactParams()
	d1 := mustGenerate(t, p)
	d2 := mustGenerate(t, p)

	if len(d1.Rooms) != len(d2.Rooms) {
		t.Fatalf("Room count mismatch: %d != %d", len(d1.Rooms), len(d2.Rooms))
	}
	for i := range d1.Rooms {
		if d1.Rooms[i].Bounds != d2.Rooms[i].Bounds {
			t.Errorf("Room %d mismatch: %+v != %+v", i, d1.Rooms[i].Bounds, d2.Rooms[i].Bounds)
		}
	}
	if d1.String() != d2.String() {
		t.Errorf("Tiles differ between runs:\n%s\n---\n%s", d1, d2)
	}
	if !reflect.DeepEqual(d1, d2) {
		t.Error("Maps from the same parameters are not identical")
	}
	if d1.Fingerprint() != d2.Fingerprint() || d1.ID() != d2.ID() {
		t.Errorf("Fingerprint/ID mismatch: %x/%s != %x/%s", d1.Fingerprint(), d1.ID(), d2.Fingerprint(), d2.ID())
	}
}

func TestDungeonDifferentSeeds(t *testing.T) {
	// Generate two dungeons with different seeds - they should be different
	p1, p2 := compactParams(), compactParams()
	p1.Seed, p2.Seed = 12345, 54321

	d1 := mustGenerate(t, p1)
	d2 := mustGenerate(t, p2)

	if d1.String() == d2.String() {
		t.Error("Dungeons with different seeds should not be identical")
	}
}

func TestCompactLevel(t *testing.T) {
	p := compactParams()
	m := mustGenerate(t, p)

	if n := len(m.Rooms); n < p.MinRooms || n > p.MaxRooms {
		t.Errorf("Room count %d outside [%d,%d]", n, p.MinRooms, p.MaxRooms)
	}
	if !m.Graph().Connected() {
		t.Error("Connectivity graph has more than one component")
	}
	if n := m.Grid.Count(TileStairsUp); n != 1 {
		t.Errorf("Expected exactly one stairs-up, got %d", n)
	}
	if n := m.Grid.Count(TileStairsDown); n != 1 {
		t.Errorf("Expected exactly one stairs-down, got %d", n)
	}
	if m.Grid.At(m.Entry) != TileStairsUp || m.Grid.At(m.Exit) != TileStairsDown {
		t.Errorf("Entry %v / exit %v do not hold the stairs", m.Entry, m.Exit)
	}
	if m.EntryRoom == m.ExitRoom {
		t.Errorf("Entry and exit share room %d", m.EntryRoom)
	}
	if m.Attempts < 1 || m.Attempts > p.MaxAttempts {
		t.Errorf("Attempts = %d, want within [1,%d]", m.Attempts, p.MaxAttempts)
	}
}

func TestMapInvariants(t *testing.T) {
	for _, style := range []CorridorStyle{CorridorStraight, CorridorRandomWalk} {
		for seed := int64(1); seed <= 20; seed++ {
			p := compactParams()
			p.Seed = seed
			p.CorridorStyle = style
			m := mustGenerate(t, p)

			checkNoOverlap(t, m)
			checkBounds(t, m, p)
			checkCorridors(t, m)
			checkReachable(t, m)
			checkEntryExit(t, m)
		}
	}
}

func TestDefaultParametersGenerate(t *testing.T) {
	p := DefaultParameters()
	for seed := int64(0); seed < 10; seed++ {
		p.Seed = seed
		m := mustGenerate(t, p)
		checkNoOverlap(t, m)
		checkBounds(t, m, p)
		checkReachable(t, m)
	}
}

func TestGenerateInvalidArgument(t *testing.T) {
	p := compactParams()
	p.Width = 0

	stream := NewStream(p.Seed)
	_, err := NewGenerator().generate(context.Background(), p, stream)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
	if stream.Calls() != 0 {
		t.Errorf("Expected no random draws, got %d", stream.Calls())
	}

	if _, err := Generate(context.Background(), p); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Generate: expected ErrInvalidArgument, got %v", err)
	}
}

func TestGenerateInfeasibleExhausts(t *testing.T) {
	p := compactParams()
	p.Width, p.Height = 10, 10
	p.MinRooms, p.MaxRooms = 50, 60

	_, err := Generate(context.Background(), p)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Expected ErrGenerationExhausted, got %v", err)
	}
	if !errors.Is(err, ErrInsufficientRooms) {
		t.Errorf("Expected cause ErrInsufficientRooms, got %v", err)
	}
}

func TestGenerateAttemptsAdvanceStream(t *testing.T) {
	p := compactParams()
	p.Width, p.Height = 10, 10
	p.MinRooms, p.MaxRooms = 50, 60
	p.MaxAttempts = 3

	stream := NewStream(p.Seed)
	if _, err := NewGenerator().generate(context.Background(), p, stream); err == nil {
		t.Fatal("Expected failure")
	}
	once := NewStream(p.Seed)
	p.MaxAttempts = 1
	_, _ = NewGenerator().generate(context.Background(), p, once)

	if stream.Calls() <= once.Calls() {
		t.Errorf("Retries should keep drawing from the stream: %d calls for 3 attempts, %d for 1", stream.Calls(), once.Calls())
	}
}

func TestGenerateLevels(t *testing.T) {
	p := compactParams()
	ctx := context.Background()

	levels, err := NewGenerator().GenerateLevels(ctx, p, 4)
	if err != nil {
		t.Fatalf("GenerateLevels failed: %v", err)
	}
	again, err := NewGenerator().GenerateLevels(ctx, p, 4)
	if err != nil {
		t.Fatalf("GenerateLevels failed: %v", err)
	}

	for i, m := range levels {
		if m.Level != i {
			t.Errorf("Level %d reports level %d", i, m.Level)
		}
		if m.Seed != DeriveSeed(p.Seed, i) {
			t.Errorf("Level %d seed = %d, want %d", i, m.Seed, DeriveSeed(p.Seed, i))
		}
		if m.Fingerprint() != again[i].Fingerprint() {
			t.Errorf("Level %d differs between runs", i)
		}
	}

	single := mustGenerate(t, p)
	if single.Fingerprint() != levels[0].Fingerprint() {
		t.Error("Level 0 should match a single generation with the base seed")
	}

	if _, err := NewGenerator().GenerateLevels(ctx, p, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero levels, got %v", err)
	}
}

func TestDungeonMapJSON(t *testing.T) {
	m := mustGenerate(t, compactParams())

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		ID          string `json:"id"`
		Fingerprint string `json:"fingerprint"`
		Seed        int64  `json:"seed"`
		Grid        struct {
			Width  int      `json:"width"`
			Height int      `json:"height"`
			Rows   []string `json:"rows"`
		} `json:"grid"`
		Rooms     []json.RawMessage `json:"rooms"`
		Corridors []json.RawMessage `json:"corridors"`
		Entry     Point             `json:"entry"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.ID != m.ID().String() {
		t.Errorf("ID = %q, want %q", decoded.ID, m.ID())
	}
	if decoded.Seed != 42 || decoded.Grid.Width != 40 || decoded.Grid.Height != 30 {
		t.Errorf("Unexpected header: seed=%d grid=%dx%d", decoded.Seed, decoded.Grid.Width, decoded.Grid.Height)
	}
	if len(decoded.Grid.Rows) != 30 || decoded.Grid.Rows[m.Entry.Y][m.Entry.X] != '<' {
		t.Error("Grid rows do not carry the stairs-up tile")
	}
	if len(decoded.Rooms) != len(m.Rooms) || len(decoded.Corridors) != len(m.Corridors) {
		t.Error("Room or corridor lists lost in encoding")
	}
	if decoded.Entry != m.Entry {
		t.Errorf("Entry = %v, want %v", decoded.Entry, m.Entry)
	}
}

func checkNoOverlap(t *testing.T, m *DungeonMap) {
	t.Helper()
	for i := range m.Rooms {
		for j := i + 1; j < len(m.Rooms); j++ {
			if m.Rooms[i].Bounds.Intersects(m.Rooms[j].Bounds) {
				t.Errorf("seed %d: rooms %d and %d overlap", m.Seed, i, j)
			}
		}
	}
}

func checkBounds(t *testing.T, m *DungeonMap, p GenerationParameters) {
	t.Helper()
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.TileAt(x, y) == TileWall {
				continue
			}
			if x < p.Margin || x >= p.Width-p.Margin || y < p.Margin || y >= p.Height-p.Margin {
				t.Errorf("seed %d: non-wall tile %v at (%d,%d) inside margin", m.Seed, m.TileAt(x, y), x, y)
			}
		}
	}
}

func checkCorridors(t *testing.T, m *DungeonMap) {
	t.Helper()
	for i, c := range m.Corridors {
		if len(c.Path) == 0 {
			t.Errorf("seed %d: corridor %d is empty", m.Seed, i)
			continue
		}
		if !c.Doors[0].Adjacent(c.Path[0]) || !c.Doors[1].Adjacent(c.Path[len(c.Path)-1]) {
			t.Errorf("seed %d: corridor %d does not touch its doors", m.Seed, i)
		}
		for k := 1; k < len(c.Path); k++ {
			if !c.Path[k-1].Adjacent(c.Path[k]) {
				t.Errorf("seed %d: corridor %d breaks at %v -> %v", m.Seed, i, c.Path[k-1], c.Path[k])
			}
		}
		for _, p := range c.Path {
			for r, room := range m.Rooms {
				if room.Contains(p) {
					t.Errorf("seed %d: corridor %d crosses room %d at %v", m.Seed, i, r, p)
				}
			}
		}
		for k, d := range c.Doors {
			if m.Grid.At(d) != TileDoor {
				t.Errorf("seed %d: corridor %d door %d at %v is %v", m.Seed, i, k, d, m.Grid.At(d))
			}
		}
	}
}

// checkReachable flood-fills passable tiles from the entry and expects every
// room interior to be reached.
func checkReachable(t *testing.T, m *DungeonMap) {
	t.Helper()
	seen := map[Point]bool{m.Entry: true}
	stack := []Point{m.Entry}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range directions {
			n := cur.Add(d)
			if !seen[n] && m.IsPassable(n.X, n.Y) {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	for i, r := range m.Rooms {
		for y := r.Bounds.Y; y < r.Bounds.Y+r.Bounds.Height; y++ {
			for x := r.Bounds.X; x < r.Bounds.X+r.Bounds.Width; x++ {
				if !seen[Point{X: x, Y: y}] {
					t.Errorf("seed %d: room %d cell (%d,%d) unreachable from entry", m.Seed, i, x, y)
					return
				}
			}
		}
	}
}

func checkEntryExit(t *testing.T, m *DungeonMap) {
	t.Helper()
	if m.Grid.Count(TileStairsUp) != 1 || m.Grid.Count(TileStairsDown) != 1 {
		t.Errorf("seed %d: expected one stairs-up and one stairs-down", m.Seed)
	}
	if want := entryRoom(m.Rooms); m.EntryRoom != want {
		t.Errorf("seed %d: entry room %d, want %d", m.Seed, m.EntryRoom, want)
	}
	dist := m.Graph().Distances(m.EntryRoom)
	for i, d := range dist {
		if d > dist[m.ExitRoom] || (d == dist[m.ExitRoom] && i < m.ExitRoom) {
			t.Errorf("seed %d: room %d (distance %d) should be exit instead of %d", m.Seed, i, d, m.ExitRoom)
		}
	}
}
