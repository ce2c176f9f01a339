package session

import "context"

// Store keeps per-browser state keyed by the session cookie value.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	// Update runs fn on the stored value (the zero value when absent) and
	// stores the result, atomically with respect to other calls for any id.
	// Nothing is stored when fn returns an error.
	Update(ctx context.Context, id string, fn func(*T) error) error
	Delete(ctx context.Context, id string) error
	NewID() string
}
