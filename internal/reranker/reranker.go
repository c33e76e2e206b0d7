// Package reranker scores retrieved resumes against a job description.
//
// Vector similarity alone ranks resumes by embedding distance of their
// summaries; the reranker reads the full resume text next to the job
// description and produces a 0-100 suitability judgment with an explanation.
// Candidates below the threshold are dropped entirely.
//
// The extra LLM call per candidate adds latency and token cost in exchange
// for an explainable ranking.
package reranker

import (
	"context"
)

// DefaultThreshold is the minimum score for a candidate to survive reranking.
const DefaultThreshold = 70

// Candidate is a hydrated resume under consideration for a job description.
type Candidate struct {
	ID         int64
	Name       string
	ResumeText string
	URL        string
}

// RankedResume is a candidate that passed the threshold, ordered by score
// descending. The numeric score is an internal ranking signal and is not
// exposed; callers get the explanation instead.
type RankedResume struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	ResumeURL string `json:"resume_url"`
}

// Reranker defines the interface for resume reranking.
type Reranker interface {
	// Rerank scores each candidate against the job description, drops those
	// scoring below threshold, and returns the rest ordered by score
	// descending. Candidates with equal scores keep their input order.
	Rerank(ctx context.Context, jobDescription string, candidates []Candidate, threshold int) ([]RankedResume, error)
}
