package vectordb

import "context"

// VectorStore defines the interface for storing and searching document chunks
// by embeddings. Implementations are initialized once at process start and
// are safe for concurrent readers.
type VectorStore interface {
	// AddDocuments adds or updates chunks in the store.
	AddDocuments(ctx context.Context, docs []Document) error

	// Search performs a semantic search using the query text and returns up
	// to limit results ordered by descending native similarity.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)

	// DeleteByDocRef removes all chunks belonging to the given document
	// reference id.
	DeleteByDocRef(ctx context.Context, docRefID string) error

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error

	// Count returns the total number of chunks in the store.
	Count() int
}
