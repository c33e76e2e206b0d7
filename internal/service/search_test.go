package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/eightynine/talentbot/internal/llm"
	"github.com/eightynine/talentbot/internal/repository"
	"github.com/eightynine/talentbot/internal/reranker"
	"github.com/eightynine/talentbot/internal/resume"
	"github.com/eightynine/talentbot/internal/retriever"
	"github.com/eightynine/talentbot/internal/vectorstore"
)

// stubLLM returns one canned response for every prompt.
type stubLLM struct {
	response string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	return s.response, nil
}

func (s *stubLLM) GenerateBatch(ctx context.Context, prompts []string, opts llm.GenerateOptions) ([]string, error) {
	results := make([]string, len(prompts))
	for i := range prompts {
		results[i] = s.response
	}
	return results, nil
}

func (s *stubLLM) GenerateStream(ctx context.Context, prompt string, opts llm.GenerateOptions) (<-chan llm.StreamChunk, error) {
	ch := make(chan llm.StreamChunk, 1)
	ch <- llm.StreamChunk{Done: true}
	close(ch)
	return ch, nil
}

// scoringLLM answers rerank prompts with a scripted score per candidate name.
type scoringLLM struct {
	scores map[string]int // candidate name -> score
}

func (s *scoringLLM) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	for name, score := range s.scores {
		if strings.Contains(prompt, "Name: "+name+"\n") {
			return fmt.Sprintf(`{"score": %d, "reason": "scripted judgment for %s"}`, score, name), nil
		}
	}
	return "", fmt.Errorf("no scripted score for prompt")
}

func (s *scoringLLM) GenerateBatch(ctx context.Context, prompts []string, opts llm.GenerateOptions) ([]string, error) {
	results := make([]string, len(prompts))
	for i, p := range prompts {
		out, err := s.Generate(ctx, p, opts)
		if err != nil {
			return nil, err
		}
		results[i] = out
	}
	return results, nil
}

func (s *scoringLLM) GenerateStream(ctx context.Context, prompt string, opts llm.GenerateOptions) (<-chan llm.StreamChunk, error) {
	ch := make(chan llm.StreamChunk, 1)
	ch <- llm.StreamChunk{Done: true}
	close(ch)
	return ch, nil
}

// stubStore returns the same documents for every query.
type stubStore struct {
	docs []vectorstore.Document
}

func (s *stubStore) EnsureCollection(ctx context.Context) error { return nil }
func (s *stubStore) DropCollection(ctx context.Context) error   { return nil }
func (s *stubStore) IndexSummaries(ctx context.Context, summaries []vectorstore.Summary) error {
	return nil
}
func (s *stubStore) DeleteResume(ctx context.Context, resumeID int64) error { return nil }
func (s *stubStore) SimilaritySearch(ctx context.Context, query string, k int) ([]vectorstore.Document, error) {
	return s.docs, nil
}

// stubRepo serves resumes from an in-memory map.
type stubRepo struct {
	resumes map[int64]*repository.Resume
}

func (r *stubRepo) Create(ctx context.Context, res *repository.Resume) error { return nil }

func (r *stubRepo) GetByID(ctx context.Context, id int64) (*repository.Resume, error) {
	res, ok := r.resumes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return res, nil
}

func (r *stubRepo) GetByIDs(ctx context.Context, ids []int64) ([]*repository.Resume, error) {
	var out []*repository.Resume
	for _, id := range ids {
		if res, ok := r.resumes[id]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *stubRepo) List(ctx context.Context, limit, offset int) ([]*repository.Resume, int, error) {
	return nil, 0, nil
}
func (r *stubRepo) Update(ctx context.Context, res *repository.Resume) error { return nil }
func (r *stubRepo) Delete(ctx context.Context, id int64) error               { return nil }

// countReranker records the candidates it was asked to rank.
type countReranker struct {
	calls      int
	candidates []reranker.Candidate
}

func (c *countReranker) Rerank(ctx context.Context, jobDescription string, candidates []reranker.Candidate, threshold int) ([]reranker.RankedResume, error) {
	c.calls++
	c.candidates = candidates
	return nil, nil
}

func storedResume(id int64, name string) *repository.Resume {
	return &repository.Resume{
		ID:      id,
		Name:    name,
		Data:    resume.JSONResume{Name: name},
		Summary: "summary for " + name,
	}
}

func newRetriever(expansion string, store vectorstore.VectorStore) *retriever.MultiQueryRetriever {
	expander := retriever.NewQueryExpander(&stubLLM{response: expansion})
	return retriever.NewMultiQueryRetriever(expander, store)
}

func TestSearch_EmptyCandidateSet(t *testing.T) {
	rr := &countReranker{}
	svc := NewSearchService(
		newRetriever("a query", &stubStore{}),
		&stubRepo{},
		rr,
		"http://localhost:8080",
		70,
	)

	results, err := svc.Search(context.Background(), "some job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected no results, got %v", results)
	}
	if rr.calls != 0 {
		t.Errorf("expected reranker not to be called, got %d calls", rr.calls)
	}
}

func TestSearch_SkipsResumesMissingFromStore(t *testing.T) {
	store := &stubStore{docs: []vectorstore.Document{
		{ResumeID: 1}, {ResumeID: 2}, {ResumeID: 3},
	}}
	repo := &stubRepo{resumes: map[int64]*repository.Resume{
		1: storedResume(1, "Alice"),
		3: storedResume(3, "Carol"),
	}}
	rr := &countReranker{}
	svc := NewSearchService(newRetriever("a query", store), repo, rr, "http://localhost:8080", 70)

	_, err := svc.Search(context.Background(), "some job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rr.calls != 1 {
		t.Fatalf("expected 1 rerank call, got %d", rr.calls)
	}
	if len(rr.candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(rr.candidates))
	}
	if rr.candidates[0].ID != 1 || rr.candidates[1].ID != 3 {
		t.Errorf("unexpected candidate IDs: %d, %d", rr.candidates[0].ID, rr.candidates[1].ID)
	}
	if rr.candidates[0].URL != "http://localhost:8080/resumes?id=1" {
		t.Errorf("unexpected candidate URL %q", rr.candidates[0].URL)
	}
	if !strings.Contains(rr.candidates[0].ResumeText, "Name: Alice") {
		t.Errorf("candidate text not rendered: %q", rr.candidates[0].ResumeText)
	}
}

func TestSearch_RanksAndFiltersByThreshold(t *testing.T) {
	// Eight candidates; five score at or above 70.
	scores := map[string]int{
		"Candidate 1": 95,
		"Candidate 2": 40,
		"Candidate 3": 70,
		"Candidate 4": 88,
		"Candidate 5": 55,
		"Candidate 6": 71,
		"Candidate 7": 60,
		"Candidate 8": 99,
	}

	var docs []vectorstore.Document
	repo := &stubRepo{resumes: make(map[int64]*repository.Resume)}
	for i := int64(1); i <= 8; i++ {
		docs = append(docs, vectorstore.Document{ResumeID: i})
		repo.resumes[i] = storedResume(i, fmt.Sprintf("Candidate %d", i))
	}

	rr := reranker.NewLLMReranker(&scoringLLM{scores: scores})
	svc := NewSearchService(newRetriever("a query", &stubStore{docs: docs}), repo, rr, "http://localhost:8080", 70)

	results, err := svc.Search(context.Background(), "some job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []int64{8, 1, 4, 6, 3} // scores 99, 95, 88, 71, 70
	if len(results) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(results))
	}
	for i, r := range results {
		if r.ID != expected[i] {
			t.Errorf("result %d has ID %d, expected %d", i, r.ID, expected[i])
		}
		if r.Reason == "" {
			t.Errorf("result %d has empty reason", i)
		}
		wantURL := fmt.Sprintf("http://localhost:8080/resumes?id=%d", r.ID)
		if r.ResumeURL != wantURL {
			t.Errorf("result %d has URL %q, expected %q", i, r.ResumeURL, wantURL)
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	scores := map[string]int{
		"Candidate 1": 80,
		"Candidate 2": 92,
		"Candidate 3": 75,
	}
	var docs []vectorstore.Document
	repo := &stubRepo{resumes: make(map[int64]*repository.Resume)}
	for i := int64(1); i <= 3; i++ {
		docs = append(docs, vectorstore.Document{ResumeID: i})
		repo.resumes[i] = storedResume(i, fmt.Sprintf("Candidate %d", i))
	}

	rr := reranker.NewLLMReranker(&scoringLLM{scores: scores})
	svc := NewSearchService(newRetriever("a query", &stubStore{docs: docs}), repo, rr, "http://localhost:8080", 70)

	first, err := svc.Search(context.Background(), "some job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(context.Background(), "some job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result %d differs between identical calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestResumeURL(t *testing.T) {
	svc := NewSearchService(nil, nil, nil, "https://talent.example.com", 70)

	if got := svc.ResumeURL(42); got != "https://talent.example.com/resumes?id=42" {
		t.Errorf("ResumeURL(42) = %q", got)
	}
}
