package cache

import (
	"context"
	"errors"
)

// Sentinel errors for cache backends.
var (
	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache unavailable")

	// ErrNotClearable is returned by [Clear] for backends without [Clearer].
	ErrNotClearable = errors.New("cache cannot be cleared")
)

// Clear empties c if it implements [Clearer].
func Clear(ctx context.Context, c Cache) (int, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return 0, ErrNotClearable
	}
	return cl.Clear(ctx)
}
