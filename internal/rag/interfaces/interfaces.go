package interfaces

import (
	"context"

	"docintel/internal/rag/schema"
)

// Loader is the interface for loading data from a file and converting it
// into a list of Chunk objects, one per page, sheet or file.
type Loader interface {
	Load(ctx context.Context, path string) ([]*schema.Chunk, error)
}

// Splitter is the interface for splitting loaded Chunks into smaller,
// retrieval-sized pieces.
type Splitter interface {
	Split(ctx context.Context, sections []*schema.Chunk) ([]*schema.Chunk, error)
}

// VectorIndex is the per-document vector storage capability. Implementations
// own embedding and storage; callers only see document-scoped operations.
type VectorIndex interface {
	// Build embeds the chunks and stores them under the document's index.
	Build(ctx context.Context, docID string, chunks []*schema.Chunk) error
	// Search returns the topK chunks most similar to the query, best first,
	// scoped to the given document.
	Search(ctx context.Context, docID, query string, topK int) ([]*schema.Chunk, error)
	// Destroy removes all indexed state for the document.
	Destroy(ctx context.Context, docID string) error
}
