package pure

import (
	"fmt"

	"github.com/samber/lo"
)

// Chunk splits s into groups of size elements. The last group holds the
// remainder.
func Chunk[T any](s []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidSize, size)
	}
	return lo.Chunk(s, size), nil
}

// Uniq drops repeated elements, keeping the first occurrence of each.
func Uniq[T comparable](s []T) []T {
	return lo.Uniq(s)
}
