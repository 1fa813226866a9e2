package world

// Point is a grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum of two points.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Manhattan returns the 4-directional distance between two points.
func (p Point) Manhattan(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Adjacent reports whether two points are 4-directional neighbours.
func (p Point) Adjacent(o Point) bool {
	return p.Manhattan(o) == 1
}

// Cardinal directions in the order the carver and flood fill visit them.
var directions = [4]Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Rect is an axis-aligned rectangle of cells.
type Rect struct {
	X      int `json:"x"` // Top-left corner position
	Y      int `json:"y"`
	Width  int `json:"width"` // Dimensions in cells
	Height int `json:"height"`
}

// Center returns the center coordinates of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains returns true if the given point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Expand grows the rectangle by n cells on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Room is a rectangular interior of floor cells surrounded by a wall ring.
type Room struct {
	Index  int  `json:"index"`
	Bounds Rect `json:"bounds"` // Interior cells

	// DoorCandidates are ring cells touching exactly one interior cell,
	// listed top edge, right edge, bottom edge, left edge.
	DoorCandidates []Point `json:"-"`

	// Doors are the candidates a corridor actually attached to.
	Doors []Point `json:"doors"`
}

func newRoom(index int, bounds Rect) Room {
	return Room{
		Index:          index,
		Bounds:         bounds,
		DoorCandidates: doorCandidates(bounds),
	}
}

// Center returns the centre cell of the room's interior.
func (r Room) Center() Point {
	return r.Bounds.Center()
}

// Contains returns true if the point is an interior cell of the room.
func (r Room) Contains(p Point) bool {
	return r.Bounds.Contains(p)
}

// OnRing reports whether p lies on the wall ring around the interior,
// corners included.
func (r Room) OnRing(p Point) bool {
	return r.Bounds.Expand(1).Contains(p) && !r.Bounds.Contains(p)
}

// Outward returns the cell just outside a door candidate, or false when p
// is not a door candidate of this room.
func (r Room) Outward(p Point) (Point, bool) {
	b := r.Bounds
	switch {
	case p.Y == b.Y-1 && p.X >= b.X && p.X < b.X+b.Width:
		return Point{X: p.X, Y: p.Y - 1}, true
	case p.X == b.X+b.Width && p.Y >= b.Y && p.Y < b.Y+b.Height:
		return Point{X: p.X + 1, Y: p.Y}, true
	case p.Y == b.Y+b.Height && p.X >= b.X && p.X < b.X+b.Width:
		return Point{X: p.X, Y: p.Y + 1}, true
	case p.X == b.X-1 && p.Y >= b.Y && p.Y < b.Y+b.Height:
		return Point{X: p.X - 1, Y: p.Y}, true
	}
	return Point{}, false
}

func doorCandidates(b Rect) []Point {
	out := make([]Point, 0, 2*(b.Width+b.Height))
	for x := b.X; x < b.X+b.Width; x++ {
		out = append(out, Point{X: x, Y: b.Y - 1})
	}
	for y := b.Y; y < b.Y+b.Height; y++ {
		out = append(out, Point{X: b.X + b.Width, Y: y})
	}
	for x := b.X; x < b.X+b.Width; x++ {
		out = append(out, Point{X: x, Y: b.Y + b.Height})
	}
	for y := b.Y; y < b.Y+b.Height; y++ {
		out = append(out, Point{X: b.X - 1, Y: y})
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
