package ports

import "context"

// BoardRepository is the remote persistence tier. Implementations must
// enforce that userID matches the board's owner; authorization is the
// repository's job, not the caller's.
type BoardRepository interface {
	// Create stores a new board document and returns the stored representation.
	Create(ctx context.Context, record *BoardRecord) (*BoardRecord, error)

	// Get fetches a board by ID for the owning user. Returns a NotFound
	// error when no such board exists for that user.
	Get(ctx context.Context, boardID, userID string) (*BoardRecord, error)

	// Put replaces the full board document (last-writer-wins) and returns
	// the stored representation, whose updatedAt is authoritative.
	Put(ctx context.Context, boardID, userID string, record *BoardRecord) (*BoardRecord, error)

	// Delete removes a board document for the owning user.
	Delete(ctx context.Context, boardID, userID string) error

	// ListByUser returns every board owned by the user.
	ListByUser(ctx context.Context, userID string) ([]*BoardRecord, error)
}

// LocalCache is the fast, best-effort persistence tier. Values are opaque
// serialized snapshots; failures are a convenience-layer concern only and
// must never surface to the user.
type LocalCache interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}

// LinkMetadata is a fetched link preview
type LinkMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Favicon     string `json:"favicon"`
}

// LinkMetadataFetcher resolves a human-readable preview for a link card.
// Implementations must bound the fetch with a timeout; on error the card
// degrades to showing the raw URL.
type LinkMetadataFetcher interface {
	Fetch(ctx context.Context, url string) (*LinkMetadata, error)
}
