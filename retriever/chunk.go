package retriever

// Chunk is one indexed unit of reference text with its precomputed
// embedding. Chunks are immutable once inserted and all embeddings share one
// dimension fixed by the embedding model.
type Chunk struct {
	Id        string    `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}
