package similarity

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/scamshield-ai/scamshield/pkg/logging"
)

type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, request openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Result is a ranked transcript returned by Search.
type Result struct {
	ID         string            `json:"id"`
	Transcript string            `json:"transcript"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Score      float64           `json:"score"`
}

// Store indexes completed scam transcripts for nearest-neighbor lookup.
type Store interface {
	Store(ctx context.Context, id, transcript string, metadata map[string]string) error
	Search(ctx context.Context, query string, topK int) ([]Result, error)
}

// MemoryVectorStore keeps embeddings in memory and supports simple cosine
// retrieval. Transcripts stored under an existing id are re-embedded and
// replace the previous entry, so a growing conversation keeps one record.
type MemoryVectorStore struct {
	client embeddingClient
	model  string
	logger *logging.Logger

	mu   sync.RWMutex
	docs []document
}

type document struct {
	id         string
	transcript string
	metadata   map[string]string
	embedding  []float32
}

// NewMemoryVectorStore creates an in-memory store.
func NewMemoryVectorStore(client embeddingClient, model string, logger *logging.Logger) *MemoryVectorStore {
	if client == nil {
		panic("similarity: embedding client cannot be nil")
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemoryVectorStore{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Store embeds the transcript and indexes it under id.
func (s *MemoryVectorStore) Store(ctx context.Context, id, transcript string, metadata map[string]string) error {
	if transcript == "" {
		return nil
	}

	req := &openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.model),
		Input: []string{transcript},
	}
	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return err
	}
	if len(resp.Data) != 1 {
		return errors.New("similarity: embedding response size mismatch")
	}

	doc := document{
		id:         id,
		transcript: transcript,
		metadata:   metadata,
		embedding:  resp.Data[0].Embedding,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		if s.docs[i].id == id {
			s.docs[i] = doc
			return nil
		}
	}
	s.docs = append(s.docs, doc)
	return nil
}

// Search returns the topK transcripts most similar to the query.
func (s *MemoryVectorStore) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = 3
	}
	req := &openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.model),
		Input: []string{query},
	}
	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	queryVec := resp.Data[0].Embedding

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.docs) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(s.docs))
	for _, doc := range s.docs {
		results = append(results, Result{
			ID:         doc.id,
			Transcript: doc.transcript,
			Metadata:   doc.metadata,
			Score:      cosineSimilarity(queryVec, doc.embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	var normA float64
	var normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
