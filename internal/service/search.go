// Package service composes the retrieval, persistence and reranking layers
// into the operations exposed over the API and to the agent tools.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eightynine/talentbot/internal/repository"
	"github.com/eightynine/talentbot/internal/reranker"
	"github.com/eightynine/talentbot/internal/resume"
	"github.com/eightynine/talentbot/internal/retriever"
)

// SearchService implements resume search by job description: multi-query
// retrieval, hydration from the relational store, then LLM reranking.
type SearchService struct {
	retriever *retriever.MultiQueryRetriever
	resumes   repository.ResumeRepository
	reranker  reranker.Reranker
	baseURL   string
	threshold int
	logger    *slog.Logger
}

// NewSearchService creates a new search service. threshold <= 0 selects the
// reranker default.
func NewSearchService(
	rt *retriever.MultiQueryRetriever,
	resumes repository.ResumeRepository,
	rr reranker.Reranker,
	baseURL string,
	threshold int,
) *SearchService {
	if threshold <= 0 {
		threshold = reranker.DefaultThreshold
	}
	return &SearchService{
		retriever: rt,
		resumes:   resumes,
		reranker:  rr,
		baseURL:   baseURL,
		threshold: threshold,
		logger:    slog.Default(),
	}
}

// Search finds resumes matching a job description. An empty candidate set
// returns an empty result without invoking the reranker. A resume ID known
// to the vector index but missing from the relational store is skipped; the
// two stores are only eventually consistent.
func (s *SearchService) Search(ctx context.Context, jobDescription string) ([]reranker.RankedResume, error) {
	documents, err := s.retriever.Retrieve(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(documents) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(documents))
	for i, doc := range documents {
		ids[i] = doc.ResumeID
	}

	hydrated, err := s.resumes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate candidates: %w", err)
	}

	byID := make(map[int64]*repository.Resume, len(hydrated))
	for _, res := range hydrated {
		byID[res.ID] = res
	}

	// Candidates keep the retriever's first-seen order; the reranker's
	// stable sort makes that the tiebreak between equal scores.
	candidates := make([]reranker.Candidate, 0, len(documents))
	for _, doc := range documents {
		res, ok := byID[doc.ResumeID]
		if !ok {
			s.logger.Warn("resume in vector index but not in store, skipping", "resume_id", doc.ResumeID)
			continue
		}

		text, err := resume.Render(&res.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to render resume %d: %w", res.ID, err)
		}

		candidates = append(candidates, reranker.Candidate{
			ID:         res.ID,
			Name:       res.Name,
			ResumeText: text,
			URL:        s.ResumeURL(res.ID),
		})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	results, err := s.reranker.Rerank(ctx, jobDescription, candidates, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("reranking failed: %w", err)
	}

	s.logger.Info("resume search completed",
		"candidates", len(candidates),
		"matches", len(results),
	)

	return results, nil
}

// ResumeURL builds the public link for a resume.
func (s *SearchService) ResumeURL(id int64) string {
	return fmt.Sprintf("%s/resumes?id=%d", s.baseURL, id)
}
