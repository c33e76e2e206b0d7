package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eightynine/talentbot/internal/repository"
	"github.com/eightynine/talentbot/internal/vectorstore"
)

// reindexPageSize is the number of resumes loaded per page during a rebuild.
const reindexPageSize = 100

// IndexService stores resumes and keeps the vector index of their summaries
// in sync with the relational store.
type IndexService struct {
	resumes repository.ResumeRepository
	store   vectorstore.VectorStore
	logger  *slog.Logger
}

// NewIndexService creates a new index service.
func NewIndexService(resumes repository.ResumeRepository, store vectorstore.VectorStore) *IndexService {
	return &IndexService{
		resumes: resumes,
		store:   store,
		logger:  slog.Default(),
	}
}

// IndexResume persists a resume and indexes its summary for similarity search.
func (s *IndexService) IndexResume(ctx context.Context, res *repository.Resume) error {
	if err := s.resumes.Create(ctx, res); err != nil {
		return fmt.Errorf("failed to store resume: %w", err)
	}

	err := s.store.IndexSummaries(ctx, []vectorstore.Summary{
		{ResumeID: res.ID, Content: res.Summary},
	})
	if err != nil {
		return fmt.Errorf("failed to index summary for resume %d: %w", res.ID, err)
	}

	s.logger.Info("indexed resume", "resume_id", res.ID, "name", res.Name)
	return nil
}

// DeleteResume removes a resume from both stores.
func (s *IndexService) DeleteResume(ctx context.Context, id int64) error {
	if err := s.resumes.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteResume(ctx, id); err != nil {
		return fmt.Errorf("failed to remove resume %d from index: %w", id, err)
	}
	return nil
}

// Reindex rebuilds the vector collection from the relational store. The
// collection is dropped first, so searches running during a rebuild may see
// partial results.
func (s *IndexService) Reindex(ctx context.Context) (int, error) {
	if err := s.store.DropCollection(ctx); err != nil {
		s.logger.Warn("dropping collection before reindex", "error", err)
	}
	if err := s.store.EnsureCollection(ctx); err != nil {
		return 0, fmt.Errorf("failed to recreate collection: %w", err)
	}

	indexed := 0
	for offset := 0; ; offset += reindexPageSize {
		page, total, err := s.resumes.List(ctx, reindexPageSize, offset)
		if err != nil {
			return indexed, fmt.Errorf("failed to list resumes: %w", err)
		}
		if len(page) == 0 {
			break
		}

		summaries := make([]vectorstore.Summary, len(page))
		for i, res := range page {
			summaries[i] = vectorstore.Summary{ResumeID: res.ID, Content: res.Summary}
		}
		if err := s.store.IndexSummaries(ctx, summaries); err != nil {
			return indexed, fmt.Errorf("failed to index summaries: %w", err)
		}

		indexed += len(page)
		s.logger.Info("reindex progress", "indexed", indexed, "total", total)

		if indexed >= total {
			break
		}
	}

	return indexed, nil
}
