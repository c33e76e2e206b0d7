// Package vectorstore provides similarity search over indexed resume summaries.
package vectorstore

import (
	"context"
)

// Summary is a resume summary to be indexed for similarity search.
type Summary struct {
	ResumeID int64
	Content  string
}

// Document is a similarity search hit. The same resume may appear in the
// results of different queries; callers deduplicate by ResumeID.
type Document struct {
	ResumeID int64
	Content  string
	Score    float32
}

// VectorStore defines the interface for resume summary vector operations.
type VectorStore interface {
	// EnsureCollection creates the summary collection if it does not exist.
	EnsureCollection(ctx context.Context) error

	// DropCollection deletes the summary collection and everything in it.
	DropCollection(ctx context.Context) error

	// IndexSummaries embeds and upserts summaries. Re-indexing a resume ID
	// replaces its previous entry.
	IndexSummaries(ctx context.Context, summaries []Summary) error

	// DeleteResume removes the entry for a resume ID.
	DeleteResume(ctx context.Context, resumeID int64) error

	// SimilaritySearch returns the top-k documents nearest to the query text.
	SimilaritySearch(ctx context.Context, query string, k int) ([]Document, error)
}
