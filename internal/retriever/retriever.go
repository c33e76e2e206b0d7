package retriever

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/eightynine/talentbot/internal/vectorstore"
)

// DefaultTopK is the number of results requested from each similarity lookup.
const DefaultTopK = 20

// MultiQueryRetriever fans a job description's generated queries out to the
// vector store and merges the results into a candidate set with at most one
// entry per resume.
type MultiQueryRetriever struct {
	expander        *QueryExpander
	store           vectorstore.VectorStore
	topK            int
	includeOriginal bool
	logger          *slog.Logger
}

// RetrieverOption is a functional option for configuring MultiQueryRetriever.
type RetrieverOption func(*MultiQueryRetriever)

// WithTopK sets the per-query similarity lookup size.
func WithTopK(k int) RetrieverOption {
	return func(r *MultiQueryRetriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithIncludeOriginal also runs the verbatim job description as a query,
// ahead of the generated ones. Off by default: the expansions are generated
// to represent the original, and the raw text tends to carry noise (job IDs,
// salary, location) that the expansion prompt strips.
func WithIncludeOriginal(include bool) RetrieverOption {
	return func(r *MultiQueryRetriever) {
		r.includeOriginal = include
	}
}

// WithRetrieverLogger sets the logger.
func WithRetrieverLogger(logger *slog.Logger) RetrieverOption {
	return func(r *MultiQueryRetriever) {
		r.logger = logger
	}
}

// NewMultiQueryRetriever creates a new multi-query retriever.
func NewMultiQueryRetriever(expander *QueryExpander, store vectorstore.VectorStore, opts ...RetrieverOption) *MultiQueryRetriever {
	r := &MultiQueryRetriever{
		expander: expander,
		store:    store,
		topK:     DefaultTopK,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Retrieve expands the job description, runs all generated queries against
// the vector store concurrently, and returns the concatenated results
// deduplicated by resume ID with first-seen order preserved.
//
// The candidate set order follows query order, then each query's own rank
// order; it is not a global similarity ranking, since a resume surfacing
// under several queries keeps only its earliest position. A lookup failure
// on any query fails the whole call; an empty query set yields an empty
// candidate set and no error.
func (r *MultiQueryRetriever) Retrieve(ctx context.Context, jobDescription string) ([]vectorstore.Document, error) {
	generated, err := r.expander.Expand(ctx, jobDescription)
	if err != nil {
		return nil, err
	}

	queries := generated
	if r.includeOriginal {
		queries = append([]string{jobDescription}, generated...)
	}

	if len(queries) == 0 {
		r.logger.Warn("query expansion produced no usable queries")
		return nil, nil
	}

	// One result slot per query keeps merge order deterministic regardless
	// of lookup completion order.
	perQuery := make([][]vectorstore.Document, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			docs, err := r.store.SimilaritySearch(gctx, query, r.topK)
			if err != nil {
				return fmt.Errorf("similarity lookup for query %d failed: %w", i, err)
			}
			perQuery[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var candidates []vectorstore.Document
	for _, docs := range perQuery {
		for _, doc := range docs {
			if _, ok := seen[doc.ResumeID]; ok {
				continue
			}
			seen[doc.ResumeID] = struct{}{}
			candidates = append(candidates, doc)
		}
	}

	r.logger.Debug("retrieved candidate set",
		"queries", len(queries),
		"unique_resumes", len(candidates),
	)

	return candidates, nil
}
