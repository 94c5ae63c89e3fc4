package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/patrolscribe/assistant/retriever"
)

// memoryRetriever is a brute-force cosine-similarity store. It backs tests
// and local runs where postgres is unavailable.
type memoryRetriever struct {
	mtx       sync.RWMutex
	dimension int
	chunks    []retriever.Chunk
}

func (r *memoryRetriever) InsertChunk(ctx context.Context, text string, embedding []float32) (string, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.dimension == 0 {
		r.dimension = len(embedding)
	}

	if len(embedding) != r.dimension {
		return "", errors.New("embedding dimension mismatch")
	}

	id := uuid.NewString()

	r.chunks = append(r.chunks, retriever.Chunk{
		Id:        id,
		Text:      text,
		Embedding: embedding,
	})

	return id, nil
}

func (r *memoryRetriever) Search(ctx context.Context, vector []float32, k int) ([]retriever.Result, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	results := make([]retriever.Result, 0, len(r.chunks))
	for _, c := range r.chunks {
		results = append(results, retriever.Result{
			Id:    c.Id,
			Score: cosine(c.Embedding, vector),
		})
	}

	// Stable keeps insertion order among equal scores instead of inventing
	// a tie-break rule.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}

	return results, nil
}

func (r *memoryRetriever) GetChunks(ctx context.Context, ids []string) ([]retriever.Chunk, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	byId := map[string]retriever.Chunk{}
	for _, c := range r.chunks {
		byId[c.Id] = c
	}

	chunks := make([]retriever.Chunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := byId[id]; ok {
			chunks = append(chunks, c)
		}
	}

	return chunks, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func NewRetriever(opts ...retriever.Option) retriever.Retriever {
	_ = retriever.NewOptions(opts...)
	return &memoryRetriever{}
}
