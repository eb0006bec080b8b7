// Package ingest orchestrates startup ingestion of the known reference
// documents into their collections.
package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/unikit/regent/pkg/knowledge"
	"github.com/unikit/regent/pkg/source"
)

// Policy controls whether startup ingestion rebuilds collections that
// already exist.
type Policy string

const (
	// PolicyStable skips documents whose collection already exists, so a
	// restart does not pay the embedding cost again.
	PolicyStable Policy = "stable"
	// PolicyDevelopment always rebuilds.
	PolicyDevelopment Policy = "development"
)

// ParsePolicy maps a deployment-mode string to a Policy, defaulting to
// stable.
func ParsePolicy(s string) Policy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return PolicyDevelopment
	default:
		return PolicyStable
	}
}

// Document names one reference document the runner should ingest.
type Document struct {
	DocType string
	Level   string
	Key     string // document source key holding the extracted text
}

// Result reports what happened to one document.
type Result struct {
	Document Document
	Chunks   int
	Skipped  bool
	Err      error
}

// Runner drives the ingestion pipeline for the configured document set.
type Runner struct {
	index  *knowledge.Index
	src    source.Source
	policy Policy
	logger *slog.Logger
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(index *knowledge.Index, src source.Source, policy Policy, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		index:  index,
		src:    src,
		policy: policy,
		logger: logger,
	}
}

// IngestAll ingests every document in docs, isolating failures: one bad
// document never aborts the others, and a fully empty run still lets the
// service start with retrieval degrading to empty results.
func (r *Runner) IngestAll(ctx context.Context, docs []Document) []Result {
	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		results = append(results, r.ingestOne(ctx, doc))
	}
	return results
}

func (r *Runner) ingestOne(ctx context.Context, doc Document) Result {
	log := r.logger.With("doc_type", doc.DocType, "level", doc.Level, "key", doc.Key)

	if r.policy == PolicyStable {
		exists, err := r.index.Exists(ctx, doc.DocType, doc.Level)
		if err != nil {
			log.Error("failed to check collection", "error", err)
			return Result{Document: doc, Err: err}
		}
		if exists {
			log.Info("collection already populated, skipping")
			return Result{Document: doc, Skipped: true}
		}
	}

	text, err := r.src.Fetch(ctx, doc.Key)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			log.Warn("source document unavailable, skipping")
			return Result{Document: doc, Skipped: true, Err: err}
		}
		log.Error("failed to fetch source document", "error", err)
		return Result{Document: doc, Err: err}
	}

	n, err := r.index.Ingest(ctx, doc.DocType, doc.Level, text)
	if err != nil {
		log.Error("ingestion failed", "error", err)
		return Result{Document: doc, Err: err}
	}

	log.Info("document ingested", "chunks", n)
	return Result{Document: doc, Chunks: n}
}

// Keys holds the document source keys for the known document set.
type Keys struct {
	HandbookUG  string
	HandbookPGT string
	HandbookPGR string
	Academic    string
}

// Defaults returns the document set for the configured keys, one handbook
// per level plus the academic integrity policy. Documents without a key
// are omitted.
func Defaults(keys Keys) []Document {
	candidates := []Document{
		{DocType: knowledge.DocTypeHandbook, Level: "ug", Key: keys.HandbookUG},
		{DocType: knowledge.DocTypeHandbook, Level: "pgt", Key: keys.HandbookPGT},
		{DocType: knowledge.DocTypeHandbook, Level: "pgr", Key: keys.HandbookPGR},
		{DocType: knowledge.DocTypeAcademicIntegrity, Key: keys.Academic},
	}

	docs := make([]Document, 0, len(candidates))
	for _, doc := range candidates {
		if doc.Key != "" {
			docs = append(docs, doc)
		}
	}
	return docs
}
