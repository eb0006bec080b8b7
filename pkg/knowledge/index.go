package knowledge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/unikit/regent/pkg/chunk"
)

// Chunking and retrieval defaults, matching the reference documents these
// collections hold (dense regulation text, a few hundred KB per document).
const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 300
	DefaultTopK         = 5
)

// Index wires an Embedder and a VectorStore into the two pipelines the
// service runs: ingestion (chunk, embed, upsert) and retrieval (embed,
// search).
type Index struct {
	embedder  Embedder
	store     VectorStore
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithChunking overrides the chunk window size and overlap.
func WithChunking(size, overlap int) IndexOption {
	return func(ix *Index) {
		ix.chunkSize = size
		ix.overlap = overlap
	}
}

// WithLogger sets the logger used for ingestion progress.
func WithLogger(logger *slog.Logger) IndexOption {
	return func(ix *Index) {
		ix.logger = logger
	}
}

// NewIndex creates an Index with default chunking.
func NewIndex(embedder Embedder, store VectorStore, opts ...IndexOption) *Index {
	ix := &Index{
		embedder:  embedder,
		store:     store,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Ingest rebuilds the collection for (docType, level) from text and returns
// the number of chunks written. The collection is dropped and recreated
// before the upsert so chunks from a longer previous version of the
// document cannot survive past the end of the new one. Nothing is written
// if chunking or embedding fails.
func (ix *Index) Ingest(ctx context.Context, docType, level, text string) (int, error) {
	name, err := CollectionName(docType, level)
	if err != nil {
		return 0, err
	}

	chunks, err := chunk.Split(text, ix.chunkSize, ix.overlap)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := ix.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed %d chunks for %s: %w", len(chunks), name, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	if err := ix.store.DeleteCollection(ctx, name); err != nil {
		return 0, fmt.Errorf("drop stale collection %s: %w", name, err)
	}
	if err := ix.store.EnsureCollection(ctx, name); err != nil {
		return 0, fmt.Errorf("create collection %s: %w", name, err)
	}

	docs := make([]Document, len(chunks))
	for i, c := range chunks {
		docs[i] = Document{
			ID:      ChunkID(docType, i),
			Content: c,
		}
	}

	if err := ix.store.Upsert(ctx, name, docs, vectors); err != nil {
		return 0, fmt.Errorf("upsert into %s: %w", name, err)
	}

	ix.logger.Info("ingested document", "collection", name, "chunks", len(chunks))
	return len(chunks), nil
}

// Search embeds the query and returns the texts of the top-k most similar
// chunks in the (docType, level) collection, best match first. topK <= 0
// falls back to DefaultTopK. An empty result means the collection holds no
// indexed content; it is not an error.
func (ix *Index) Search(ctx context.Context, query, docType, level string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	name, err := CollectionName(docType, level)
	if err != nil {
		return nil, err
	}

	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	docs, err := ix.store.Search(ctx, name, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	return texts, nil
}

// Exists reports whether the (docType, level) collection is already
// present in the store. Startup uses it to skip re-ingestion in stable
// deployments.
func (ix *Index) Exists(ctx context.Context, docType, level string) (bool, error) {
	name, err := CollectionName(docType, level)
	if err != nil {
		return false, err
	}
	return ix.store.HasCollection(ctx, name)
}

// ChunkID is the deterministic address of the index-th chunk of a document
// type. Re-ingesting identical text yields identical ids, so upserts
// overwrite instead of duplicating.
func ChunkID(docType string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", strings.ToLower(strings.TrimSpace(docType)), index)
}
