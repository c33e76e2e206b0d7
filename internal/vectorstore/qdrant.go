package vectorstore

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/eightynine/talentbot/internal/embedder"
)

// QdrantStore implements VectorStore using Qdrant. Query and summary texts
// are embedded through the configured embedder before hitting the index.
type QdrantStore struct {
	client     *qdrant.Client
	embedder   embedder.Embedder
	collection string
}

// NewQdrantStore creates a new Qdrant vector store client.
// url should be in format "host:port" (e.g., "localhost:6334").
func NewQdrantStore(ctx context.Context, url, collection string, embed embedder.Embedder) (*QdrantStore, error) {
	host, portStr, err := net.SplitHostPort(url)
	if err != nil {
		// If no port specified, assume default
		host = url
		portStr = "6334"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port in qdrant url: %w", err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		embedder:   embed,
		collection: collection,
	}, nil
}

// Close closes the Qdrant client connection
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// EnsureCollection creates the summary collection if it does not exist.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.embedder.Dimension()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// DropCollection deletes the summary collection.
func (s *QdrantStore) DropCollection(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

// IndexSummaries embeds and upserts summaries. The resume ID is the point ID,
// so re-indexing the same resume replaces its previous entry.
func (s *QdrantStore) IndexSummaries(ctx context.Context, summaries []Summary) error {
	if len(summaries) == 0 {
		return nil
	}

	texts := make([]string, len(summaries))
	for i, summary := range summaries {
		texts[i] = summary.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed summaries: %w", err)
	}

	points := make([]*qdrant.PointStruct, len(summaries))
	for i, summary := range summaries {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(summary.ResumeID)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: map[string]*qdrant.Value{
				"resume_id": qdrant.NewValueInt(summary.ResumeID),
				"content":   qdrant.NewValueString(summary.Content),
			},
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// DeleteResume removes the summary entry for a resume ID.
func (s *QdrantStore) DeleteResume(ctx context.Context, resumeID int64) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{qdrant.NewIDNum(uint64(resumeID))},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete resume %d: %w", resumeID, err)
	}
	return nil
}

// SimilaritySearch embeds the query text and returns the top-k nearest summaries.
func (s *QdrantStore) SimilaritySearch(ctx context.Context, query string, k int) ([]Document, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	response, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]Document, 0, len(response))
	for _, point := range response {
		doc := Document{Score: point.Score}

		if payload := point.Payload; payload != nil {
			if id, ok := payload["resume_id"]; ok {
				doc.ResumeID = id.GetIntegerValue()
			}
			if content, ok := payload["content"]; ok {
				doc.Content = content.GetStringValue()
			}
		}

		results = append(results, doc)
	}

	return results, nil
}

// Ensure QdrantStore implements VectorStore
var _ VectorStore = (*QdrantStore)(nil)
