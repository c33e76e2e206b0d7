package service

import (
	"context"
	"testing"

	"github.com/eightynine/talentbot/internal/repository"
	"github.com/eightynine/talentbot/internal/vectorstore"
)

// trackingStore records index operations for assertions.
type trackingStore struct {
	stubStore
	indexed [][]vectorstore.Summary
	deleted []int64
	dropped int
	ensured int
}

func (s *trackingStore) IndexSummaries(ctx context.Context, summaries []vectorstore.Summary) error {
	s.indexed = append(s.indexed, summaries)
	return nil
}

func (s *trackingStore) DeleteResume(ctx context.Context, resumeID int64) error {
	s.deleted = append(s.deleted, resumeID)
	return nil
}

func (s *trackingStore) DropCollection(ctx context.Context) error {
	s.dropped++
	return nil
}

func (s *trackingStore) EnsureCollection(ctx context.Context) error {
	s.ensured++
	return nil
}

// pagingRepo serves a fixed set of resumes through List.
type pagingRepo struct {
	stubRepo
	all     []*repository.Resume
	created []*repository.Resume
	removed []int64
}

func (r *pagingRepo) Create(ctx context.Context, res *repository.Resume) error {
	res.ID = int64(len(r.created) + 1)
	r.created = append(r.created, res)
	return nil
}

func (r *pagingRepo) Delete(ctx context.Context, id int64) error {
	r.removed = append(r.removed, id)
	return nil
}

func (r *pagingRepo) List(ctx context.Context, limit, offset int) ([]*repository.Resume, int, error) {
	if offset >= len(r.all) {
		return nil, len(r.all), nil
	}
	end := offset + limit
	if end > len(r.all) {
		end = len(r.all)
	}
	return r.all[offset:end], len(r.all), nil
}

func TestIndexResume(t *testing.T) {
	store := &trackingStore{}
	repo := &pagingRepo{}
	svc := NewIndexService(repo, store)

	res := storedResume(0, "Alice")
	if err := svc.IndexResume(context.Background(), res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.ID == 0 {
		t.Error("resume was not assigned an ID on create")
	}
	if len(store.indexed) != 1 || len(store.indexed[0]) != 1 {
		t.Fatalf("unexpected index calls: %v", store.indexed)
	}
	if store.indexed[0][0].ResumeID != res.ID {
		t.Errorf("indexed summary has resume ID %d, expected %d", store.indexed[0][0].ResumeID, res.ID)
	}
	if store.indexed[0][0].Content != res.Summary {
		t.Errorf("indexed summary content %q, expected %q", store.indexed[0][0].Content, res.Summary)
	}
}

func TestDeleteResume_RemovesFromBothStores(t *testing.T) {
	store := &trackingStore{}
	repo := &pagingRepo{}
	svc := NewIndexService(repo, store)

	if err := svc.DeleteResume(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.removed) != 1 || repo.removed[0] != 42 {
		t.Errorf("unexpected repository deletes: %v", repo.removed)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 42 {
		t.Errorf("unexpected index deletes: %v", store.deleted)
	}
}

func TestReindex_PagesThroughAllResumes(t *testing.T) {
	repo := &pagingRepo{}
	for i := int64(1); i <= 250; i++ {
		repo.all = append(repo.all, storedResume(i, "Candidate"))
	}
	store := &trackingStore{}
	svc := NewIndexService(repo, store)

	indexed, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if indexed != 250 {
		t.Errorf("indexed = %d, expected 250", indexed)
	}
	if store.dropped != 1 || store.ensured != 1 {
		t.Errorf("collection lifecycle: dropped=%d ensured=%d", store.dropped, store.ensured)
	}
	// 250 resumes across 100-sized pages.
	if len(store.indexed) != 3 {
		t.Errorf("expected 3 index batches, got %d", len(store.indexed))
	}
}

func TestReindex_EmptyStore(t *testing.T) {
	store := &trackingStore{}
	svc := NewIndexService(&pagingRepo{}, store)

	indexed, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if indexed != 0 {
		t.Errorf("indexed = %d, expected 0", indexed)
	}
	if len(store.indexed) != 0 {
		t.Errorf("expected no index batches, got %d", len(store.indexed))
	}
}
