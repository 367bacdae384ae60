package ports

import "context"

// ViewCache stores serialized view markup keyed by view name and context.
// Implementations must be safe for concurrent use.
type ViewCache interface {
	// Get returns the cached markup for key. ok is false on a miss.
	Get(ctx context.Context, key string) (html string, ok bool, err error)

	// Set stores html under key, replacing any previous entry.
	Set(ctx context.Context, key, html string) error

	// Purge drops every entry, typically after the blueprint library changes.
	Purge(ctx context.Context) error
}
