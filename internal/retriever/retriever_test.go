package retriever

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/eightynine/talentbot/internal/vectorstore"
)

// fakeStore serves canned similarity results keyed by query text.
type fakeStore struct {
	mu      sync.Mutex
	results map[string][]vectorstore.Document
	err     error
	queries []string
}

func (s *fakeStore) EnsureCollection(ctx context.Context) error { return nil }
func (s *fakeStore) DropCollection(ctx context.Context) error   { return nil }
func (s *fakeStore) IndexSummaries(ctx context.Context, summaries []vectorstore.Summary) error {
	return nil
}
func (s *fakeStore) DeleteResume(ctx context.Context, resumeID int64) error { return nil }

func (s *fakeStore) SimilaritySearch(ctx context.Context, query string, k int) ([]vectorstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

func doc(id int64) vectorstore.Document {
	return vectorstore.Document{ResumeID: id, Content: "summary"}
}

func TestRetrieve_DeduplicatesByResumeID(t *testing.T) {
	store := &fakeStore{results: map[string][]vectorstore.Document{
		"query one": {doc(1), doc(2)},
		"query two": {doc(2), doc(3)},
	}}
	expander := NewQueryExpander(&fakeLLM{response: "query one\nquery two"})
	retriever := NewMultiQueryRetriever(expander, store)

	docs, err := retriever.Retrieve(context.Background(), "some job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []int64{1, 2, 3}
	if len(docs) != len(expected) {
		t.Fatalf("expected %d documents, got %d", len(expected), len(docs))
	}
	for i, d := range docs {
		if d.ResumeID != expected[i] {
			t.Errorf("document %d has resume ID %d, expected %d", i, d.ResumeID, expected[i])
		}
	}
}

func TestRetrieve_EmptyExpansion(t *testing.T) {
	store := &fakeStore{}
	expander := NewQueryExpander(&fakeLLM{response: "\n  \n"})
	retriever := NewMultiQueryRetriever(expander, store)

	docs, err := retriever.Retrieve(context.Background(), "some job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs != nil {
		t.Errorf("expected no documents, got %v", docs)
	}
	if len(store.queries) != 0 {
		t.Errorf("expected no similarity lookups, got %d", len(store.queries))
	}
}

func TestRetrieve_LookupFailureFailsCall(t *testing.T) {
	wantErr := errors.New("qdrant unavailable")
	store := &fakeStore{err: wantErr}
	expander := NewQueryExpander(&fakeLLM{response: "query one\nquery two"})
	retriever := NewMultiQueryRetriever(expander, store)

	_, err := retriever.Retrieve(context.Background(), "some job description")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped %v, got %v", wantErr, err)
	}
}

func TestRetrieve_IncludeOriginal(t *testing.T) {
	original := "original job description"
	store := &fakeStore{results: map[string][]vectorstore.Document{
		original:    {doc(10)},
		"generated": {doc(20)},
	}}
	expander := NewQueryExpander(&fakeLLM{response: "generated"})
	retriever := NewMultiQueryRetriever(expander, store, WithIncludeOriginal(true))

	docs, err := retriever.Retrieve(context.Background(), original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Original query results come first in the merged set.
	expected := []int64{10, 20}
	if len(docs) != len(expected) {
		t.Fatalf("expected %d documents, got %d", len(expected), len(docs))
	}
	for i, d := range docs {
		if d.ResumeID != expected[i] {
			t.Errorf("document %d has resume ID %d, expected %d", i, d.ResumeID, expected[i])
		}
	}
}
