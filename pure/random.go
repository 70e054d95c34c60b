package pure

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// NewID returns a random (version 4) UUID string.
func NewID() string {
	return uuid.NewString()
}

// Shuffle returns a shuffled copy of s. s itself is left untouched.
func Shuffle[T any](s []T) []T {
	return lo.Shuffle(append([]T(nil), s...))
}
