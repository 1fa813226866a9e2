// Package game provides the interactive map viewer and its configuration.
package game

// State represents the current viewer mode.
type State int

const (
	// StateWalk moves the marker over passable tiles only.
	StateWalk State = iota
	// StateInspect moves a free cursor and reports the tile beneath it.
	StateInspect
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateWalk:
		return "walk"
	case StateInspect:
		return "inspect"
	default:
		return "unknown"
	}
}
