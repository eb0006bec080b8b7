// Package knowledge holds the retrieval core: the Embedder and VectorStore
// interfaces, collection naming, and the Index that composes them into the
// ingestion and retrieval pipelines.
package knowledge

import (
	"context"
)

// Document is one retrievable chunk of reference text.
type Document struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float32 `json:"score,omitempty"` // Similarity score
}

// Embedder is the interface for generating embeddings. Embed returns one
// vector per input string, in input order. Any provider or transport error
// fails the whole batch; partial results are never returned.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the interface for storing and retrieving vectors, grouped
// into named collections. The similarity metric is cosine, fixed at
// collection creation.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	// Idempotent.
	EnsureCollection(ctx context.Context, collection string) error
	// HasCollection reports whether the collection exists.
	HasCollection(ctx context.Context, collection string) (bool, error)
	// DeleteCollection removes the collection and all its entries.
	// Deleting an absent collection is not an error.
	DeleteCollection(ctx context.Context, collection string) error
	// Upsert inserts or replaces documents and their vectors. An existing
	// document id is overwritten rather than duplicated.
	Upsert(ctx context.Context, collection string, documents []Document, vectors [][]float32) error
	// Search returns up to limit documents ordered by descending cosine
	// similarity to the query vector. An empty or absent collection yields
	// an empty result, not an error.
	Search(ctx context.Context, collection string, query []float32, limit int) ([]Document, error)
}
