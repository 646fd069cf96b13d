package models

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID generates an id for authored entities (programs, sessions,
// exercises, sets). ULIDs combine a monotonic timestamp with a random
// suffix, so ids sort by creation time and collide with negligible
// probability.
func NewID() string {
	return ulid.Make().String()
}

// NewEntryID generates an id for history entries.
func NewEntryID() string {
	return uuid.NewString()
}
