package world

import "errors"

// Sentinel errors returned by the generator. Wrapped errors carry detail;
// match them with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed GenerationParameters or a
	// non-positive bound passed to the random stream. Nothing is generated.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientRooms is returned when an attempt placed fewer rooms
	// than it needs.
	ErrInsufficientRooms = errors.New("insufficient rooms")

	// ErrIllegalOverlap is returned when a corridor would cut through a room.
	// The carver retries internally; it only surfaces wrapped in
	// ErrGenerationExhausted.
	ErrIllegalOverlap = errors.New("corridor overlaps a room")

	// ErrGenerationExhausted is returned when every generation attempt failed.
	// It wraps the cause of the last attempt.
	ErrGenerationExhausted = errors.New("generation attempts exhausted")

	errDisconnected = errors.New("rooms not connected")
)
