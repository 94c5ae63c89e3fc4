package retriever

import "context"

// Retriever stores reference chunks with their embeddings and finds the
// chunks nearest a query vector.
type Retriever interface {
	InsertChunk(ctx context.Context, text string, embedding []float32) (string, error)
	// Search returns at most k results ordered by descending similarity.
	// An empty corpus yields an empty list, not an error.
	Search(ctx context.Context, vector []float32, k int) ([]Result, error)
	// GetChunks resolves ids to chunks, preserving the requested order.
	GetChunks(ctx context.Context, ids []string) ([]Chunk, error)
}

type Result struct {
	Id    string  `json:"id"`
	Score float64 `json:"score"`
}
