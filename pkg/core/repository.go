package core

import "context"

// Repository is the metadata store and document text source the engine works against.
type Repository interface {
	// Get reads a document fresh from storage.
	Get(ctx context.Context, id string) (Document, error)

	// List returns the IDs of every document in the store, in a stable order.
	List(ctx context.Context) ([]string, error)

	// Patch replaces only the given metadata keys of a document in one write,
	// leaving every other key and the body untouched.
	Patch(ctx context.Context, id string, patch Metadata) error

	// Initialize ensures the underlying storage is ready.
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that emit change notifications.
type Watchable interface {
	// Watch streams events for documents whose ID matches pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// TextSource exposes unsaved in-memory text for a document, when the host has any.
type TextSource interface {
	// CurrentText returns the live text and true, or false when only stored content exists.
	CurrentText(ctx context.Context, id string) (string, bool)
}
