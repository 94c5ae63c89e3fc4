package embedder

import "context"

// Embedder converts text into a fixed-dimension vector representation.
// Implementations must return an empty vector for empty input without
// calling the upstream model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
