package openai

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/patrolscribe/assistant/embedder"
	"github.com/patrolscribe/assistant/internal/faults"
)

type embeddingsApi interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

type openAIEmbedder struct {
	options embedder.Options
	api     embeddingsApi
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return []float32{}, nil
	}

	rsp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.options.Model),
	})
	if err != nil {
		return nil, faults.Upstream("embedding", err)
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, faults.ErrEmptyResponse
	}

	return rsp.Data[0].Embedding, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &openAIEmbedder{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	e.api = client

	return e
}
